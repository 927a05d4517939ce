// Command ggquant quantizes an image to a reduced palette.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/quant"
	"github.com/gogpu/quant/colorcache"
	"github.com/gogpu/quant/dither"
	"github.com/gogpu/quant/internal/imageio"
	"github.com/gogpu/quant/quantizer"
)

func main() {
	var (
		input    = flag.String("in", "", "input image (png, jpeg, gif, bmp, tiff, webp)")
		output   = flag.String("out", "out.gif", "output image (gif, png, bmp, tiff)")
		algo     = flag.String("algo", "wu", "quantizer: octree, median-cut, popularity, wu, distinct, websafe")
		colors   = flag.Int("colors", 256, "palette size (1-256)")
		ditherer = flag.String("dither", "none", "ditherer: none, "+strings.Join(dither.Names(), ", "))
		model    = flag.String("model", "rgb", "color cache distance model: rgb, hsv, lab, xyz")
		cacheAlg = flag.String("cache", "", "color cache: euclidean, octree (default per quantizer)")
		workers  = flag.Int("parallel", 0, "worker count, 0 for GOMAXPROCS")
		path     = flag.String("path", "standard", "pixel order: standard, reversed, serpentine")
		raw      = flag.String("raw", "", "also write a zstd compressed index plane to this file")
		seed     = flag.Uint64("seed", quantizer.DefaultSeed, "seed of the distinct quantizer")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		quant.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	q, err := newQuantizer(*algo, *model, *cacheAlg, *seed)
	if err != nil {
		log.Fatalf("ggquant: %v", err)
	}

	opts := []quant.PassOption{quant.WithParallelism(*workers)}
	if p, ok := quant.PathByName(*path); ok {
		opts = append(opts, quant.WithPath(p))
	} else {
		log.Fatalf("ggquant: unknown path %q", *path)
	}
	if *ditherer != "none" {
		d, ok := dither.ByName(*ditherer)
		if !ok {
			log.Fatalf("ggquant: unknown ditherer %q", *ditherer)
		}
		opts = append(opts, quant.WithDitherer(d))
	}

	src, format, err := imageio.Load(*input)
	if err != nil {
		log.Fatalf("ggquant: %v", err)
	}
	dst, err := quant.Allocate(src.Width(), src.Height(), quant.Format8bppIndexed)
	if err != nil {
		log.Fatalf("ggquant: %v", err)
	}

	start := time.Now()
	pal, err := src.Quantize(dst, q, *colors, opts...)
	if err != nil {
		log.Fatalf("ggquant: quantize: %v", err)
	}
	elapsed := time.Since(start)

	if err := imageio.Save(*output, dst); err != nil {
		log.Fatalf("ggquant: %v", err)
	}
	if *raw != "" {
		if err := writeRaw(*raw, dst); err != nil {
			log.Fatalf("ggquant: %v", err)
		}
	}

	mse, err := src.MeanError(dst)
	if err != nil {
		log.Fatalf("ggquant: %v", err)
	}
	nmse, _ := src.NormalizedMeanError(dst)

	p := message.NewPrinter(language.English)
	p.Printf("%s %dx%d (%d pixels, %s) -> %s\n", *input, src.Width(), src.Height(),
		src.Width()*src.Height(), format, *output)
	p.Printf("%s: %d colors in %v\n", *algo, len(pal), elapsed.Round(time.Millisecond))
	p.Printf("mean error %.3f, normalized %.6f\n", mse, nmse)
}

func newQuantizer(algo, model, cacheAlg string, seed uint64) (quant.Quantizer, error) {
	m, err := parseModel(model)
	if err != nil {
		return nil, err
	}
	opts := []quantizer.Option{quantizer.WithColorModel(m), quantizer.WithSeed(seed)}
	switch cacheAlg {
	case "":
	case "euclidean":
		opts = append(opts, quantizer.WithColorCache(colorcache.NewEuclidean(m)))
	case "octree":
		opts = append(opts, quantizer.WithColorCache(colorcache.NewOctree(m)))
	default:
		return nil, fmt.Errorf("unknown color cache %q", cacheAlg)
	}

	switch algo {
	case "octree":
		return quantizer.NewOctree(opts...), nil
	case "median-cut":
		return quantizer.NewMedianCut(opts...), nil
	case "popularity":
		return quantizer.NewPopularity(opts...), nil
	case "wu":
		return quantizer.NewWu(opts...), nil
	case "distinct":
		return quantizer.NewDistinct(opts...), nil
	case "websafe":
		return quantizer.NewPredefined(quant.WebSafePalette(), opts...), nil
	default:
		return nil, fmt.Errorf("unknown quantizer %q", algo)
	}
}

func parseModel(s string) (quant.ColorModel, error) {
	switch strings.ToLower(s) {
	case "rgb":
		return quant.ModelRGB, nil
	case "hsv":
		return quant.ModelHSV, nil
	case "lab":
		return quant.ModelLab, nil
	case "xyz":
		return quant.ModelXYZ, nil
	default:
		return 0, fmt.Errorf("unknown color model %q", s)
	}
}

func writeRaw(path string, b *quant.Buffer) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}
	if err := imageio.WriteIndexPlane(f, b); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
