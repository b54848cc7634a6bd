package pipeline

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"time"

	"github.com/charmbracelet/log"

	"github.com/atlast-io/atlast/pkg/atlas"
	"github.com/atlast-io/atlast/pkg/cache"
	"github.com/atlast-io/atlast/pkg/errors"
	"github.com/atlast-io/atlast/pkg/source"
)

// Runner executes the packing pipeline with caching support.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a pipeline runner. Nil arguments fall back to a
// no-op cache, the default keyer, and the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the full pipeline for opts and returns the encoded artifacts.
// Scanning always happens; packing, compositing, and encoding are skipped
// when both artifacts are cached for the current input set.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	result := &Result{}

	scanStart := time.Now()
	images, err := source.Scan(opts.InputDir, logger)
	if err != nil {
		return nil, err
	}
	result.Stats.ScanTime = time.Since(scanStart)

	if len(images) == 0 {
		logger.Info("no images found", "dir", opts.InputDir)
		result.NoOp = true
		return result, nil
	}
	if err := validateImages(images); err != nil {
		return nil, err
	}
	result.Images = len(images)
	logger.Info("scanned inputs", "count", len(images), "took", result.Stats.ScanTime)

	inputHash := hashInputs(images)
	logger.Debug("input set hashed", "hash", inputHash[:12])

	if !opts.Refresh {
		if cached := r.lookupArtifacts(ctx, inputHash, opts); cached != nil {
			cached.Images = result.Images
			cached.Stats.ScanTime = result.Stats.ScanTime
			logger.Info("atlas artifacts served from cache")
			return cached, nil
		}
	}

	packStart := time.Now()
	atlas.SortByAreaDesc(images)
	canvasWidth := atlas.CanvasWidth(images)
	packer := atlas.NewPacker(canvasWidth, opts.PackOptions())
	placements, err := packer.Pack(images)
	if err != nil {
		return nil, err
	}
	canvasHeight := atlas.CanvasHeight(placements)
	result.Stats.PackTime = time.Since(packStart)
	result.CanvasWidth = canvasWidth
	result.CanvasHeight = canvasHeight
	logger.Info("packed images",
		"canvas", canvasDims(canvasWidth, canvasHeight),
		"took", result.Stats.PackTime)

	compositeStart := time.Now()
	canvas, err := atlas.Composite(images, placements, canvasWidth)
	if err != nil {
		return nil, err
	}
	result.Stats.CompositeTime = time.Since(compositeStart)

	encodeStart := time.Now()
	pngBytes, err := encodePNG(canvas)
	if err != nil {
		return nil, err
	}
	records := atlas.NewRecords(images, placements, canvasWidth, canvasHeight)
	data, err := atlas.MarshalRecords(records)
	if err != nil {
		return nil, err
	}
	result.Stats.EncodeTime = time.Since(encodeStart)
	result.PNG = pngBytes
	result.Data = data
	result.Records = records
	logger.Info("encoded artifacts",
		"png_bytes", len(pngBytes),
		"data_bytes", len(data),
		"took", result.Stats.EncodeTime)

	r.storeArtifacts(ctx, inputHash, opts, result)

	return result, nil
}

// Close releases runner resources.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// lookupArtifacts returns a cache-backed result when both artifacts are
// present and the data blob still decodes, nil otherwise.
func (r *Runner) lookupArtifacts(ctx context.Context, inputHash string, opts Options) *Result {
	keyOpts := opts.ArtifactKeyOpts()
	pngBytes, hitPNG, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(inputHash, ArtifactPNG, keyOpts))
	if err != nil || !hitPNG {
		return nil
	}
	data, hitData, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(inputHash, ArtifactData, keyOpts))
	if err != nil || !hitData {
		return nil
	}
	records, err := atlas.UnmarshalRecords(data)
	if err != nil {
		r.Logger.Warn("discarding corrupt cached records", "err", err)
		return nil
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(pngBytes))
	if err != nil {
		r.Logger.Warn("discarding corrupt cached atlas image", "err", err)
		return nil
	}
	return &Result{
		CanvasWidth:  uint32(cfg.Width),
		CanvasHeight: uint32(cfg.Height),
		PNG:          pngBytes,
		Data:         data,
		Records:      records,
		CacheInfo:    CacheInfo{ArtifactHit: true},
	}
}

func (r *Runner) storeArtifacts(ctx context.Context, inputHash string, opts Options, result *Result) {
	keyOpts := opts.ArtifactKeyOpts()
	if err := r.Cache.Set(ctx, r.Keyer.ArtifactKey(inputHash, ArtifactPNG, keyOpts), result.PNG, cache.TTLArtifact); err != nil {
		r.Logger.Warn("failed to cache atlas image", "err", err)
	}
	if err := r.Cache.Set(ctx, r.Keyer.ArtifactKey(inputHash, ArtifactData, keyOpts), result.Data, cache.TTLArtifact); err != nil {
		r.Logger.Warn("failed to cache atlas records", "err", err)
	}
}

// hashInputs digests the whole input set in discovery order. Names,
// dimensions, and pixel bytes all contribute, so renaming or editing any
// input changes the key.
func hashInputs(images []*atlas.SourceImage) string {
	h := sha256.New()
	var dims [8]byte
	for _, img := range images {
		h.Write([]byte(img.Name))
		h.Write([]byte{0})
		binary.LittleEndian.PutUint32(dims[0:4], img.Width)
		binary.LittleEndian.PutUint32(dims[4:8], img.Height)
		h.Write(dims[:])
		h.Write(img.Pixels)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// encodePNG renders the canvas as a PNG. The canvas buffer is already in
// the RGBA layout image/png expects, so no copy is needed.
func encodePNG(canvas *atlas.Canvas) ([]byte, error) {
	img := &image.RGBA{
		Pix:    canvas.Pixels,
		Stride: int(canvas.Width) * 4,
		Rect:   image.Rect(0, 0, int(canvas.Width), int(canvas.Height)),
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeWriteFailed, err, "encoding atlas image")
	}
	return buf.Bytes(), nil
}

func canvasDims(w, h uint32) string {
	return fmt.Sprintf("%dx%d", w, h)
}
