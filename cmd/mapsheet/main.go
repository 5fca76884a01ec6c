// Package main provides the mapsheet CLI: it exports a printable map sheet
// from a page template and a georeferenced world image.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/spf13/cobra"

	"github.com/cartoprint/mapsheet"
	"github.com/cartoprint/mapsheet/capture"
	"github.com/cartoprint/mapsheet/legend"
)

var (
	templatePath string
	worldPath    string
	extentStr    string
	legendPath   string
	formatStr    string
	scale        float64
	dpi          float64
	outputPath   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mapsheet",
		Short: "Compose and export printable map sheets",
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export a map sheet from a template and a world image",
		Long: `Export composes a printable map sheet from a JSON page template and a
georeferenced world image, then rasterizes it to PDF, PNG, or JPEG.

The world image stands in for a live map view: --extent gives the
geographic rectangle the image covers, in projected coordinates.`,
		RunE: runExport,
	}

	exportCmd.Flags().StringVarP(&templatePath, "template", "t", "", "Page template JSON file (required)")
	exportCmd.Flags().StringVarP(&worldPath, "world", "w", "", "Georeferenced world image (required)")
	exportCmd.Flags().StringVar(&extentStr, "extent", "", "World image extent as xmin,ymin,xmax,ymax (required)")
	exportCmd.Flags().StringVar(&legendPath, "legend", "", "Legend layers JSON file")
	exportCmd.Flags().StringVarP(&formatStr, "format", "f", "pdf", "Output format: pdf, png, jpeg")
	exportCmd.Flags().Float64Var(&scale, "scale", 0, "Ground units per printed inch (0 = auto-fit)")
	exportCmd.Flags().Float64Var(&dpi, "dpi", mapsheet.DefaultDPI, "Export resolution in pixels per inch")
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: derived from the title and date)")
	_ = exportCmd.MarkFlagRequired("template")
	_ = exportCmd.MarkFlagRequired("world")
	_ = exportCmd.MarkFlagRequired("extent")

	rootCmd.AddCommand(exportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := mapsheet.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("reading template: %w", err)
	}
	tpl, err := mapsheet.ParseTemplate(data)
	if err != nil {
		return err
	}

	worldExtent, err := parseExtent(extentStr)
	if err != nil {
		return err
	}
	world, err := loadImage(worldPath)
	if err != nil {
		return fmt.Errorf("reading world image: %w", err)
	}
	// Viewport matches the world image so captures resample at full detail.
	view, err := capture.NewStaticView(world, worldExtent, world.Bounds().Dx(), world.Bounds().Dy())
	if err != nil {
		return err
	}

	var layers []legend.Layer
	if legendPath != "" {
		raw, err := os.ReadFile(legendPath)
		if err != nil {
			return fmt.Errorf("reading legend: %w", err)
		}
		if err := json.Unmarshal(raw, &layers); err != nil {
			return fmt.Errorf("parsing legend: %w", err)
		}
	}

	engine := mapsheet.NewEngine(
		mapsheet.WithDPI(dpi),
		mapsheet.WithLogger(log.New(os.Stderr, "mapsheet: ", 0)),
		mapsheet.WithCaptureOptions(capture.Options{
			SettleDelay:  time.Millisecond, // static views have nothing to load
			PollInterval: time.Millisecond,
		}),
	)

	if outputPath == "" {
		outputPath = mapsheet.ExportFilename(tpl, format, time.Now())
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()

	res, err := engine.Export(context.Background(), out, tpl, view, layers, format, scale)
	if err != nil {
		os.Remove(outputPath)
		return err
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	fmt.Println(outputPath)
	return nil
}

func parseExtent(s string) (capture.Extent, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return capture.Extent{}, fmt.Errorf("extent must be xmin,ymin,xmax,ymax, got %q", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return capture.Extent{}, fmt.Errorf("extent component %q: %w", p, err)
		}
		vals[i] = v
	}
	ext := capture.Extent{XMin: vals[0], YMin: vals[1], XMax: vals[2], YMax: vals[3]}
	if ext.Empty() {
		return capture.Extent{}, fmt.Errorf("extent %q has no area", s)
	}
	return ext, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}
