package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"clipvault/internal/catalog"
	"clipvault/internal/config"
	"clipvault/internal/imagecache"
)

func newSaveCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		imagePath string
		filePaths []string
		name      string
	)

	cmd := &cobra.Command{
		Use:   "save [text]",
		Short: "Capture a clip (text from args or stdin, --image, or --files)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cfg, func(engine *catalog.Engine, cache *imagecache.Cache) error {
				var (
					id  string
					err error
				)
				switch {
				case imagePath != "":
					id, err = saveImageClip(engine, cache, imagePath)
				case len(filePaths) > 0:
					id, err = engine.SaveFiles(filePaths, name)
				default:
					id, err = saveTextClip(engine, args)
				}
				if errors.Is(err, catalog.ErrEmptyContent) {
					return writePlain("nothing to save\n")
				}
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(map[string]string{"id": id})
				}
				return writePlain("%s\n", id)
			})
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "capture a PNG image file")
	cmd.Flags().StringSliceVar(&filePaths, "files", nil, "capture a file-reference list")
	cmd.Flags().StringVar(&name, "name", "", "display name for a file capture")

	return cmd
}

func saveTextClip(engine *catalog.Engine, args []string) (string, error) {
	text := strings.Join(args, " ")
	if text == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}
	return engine.SaveText(text)
}

// saveImageClip captures the image and eagerly derives its cache variants,
// the way the pasteboard watcher would on a real capture.
func saveImageClip(engine *catalog.Engine, cache *imagecache.Cache, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	id, err := engine.SaveImage(data)
	if err != nil {
		return "", err
	}

	if img, _, decodeErr := image.Decode(bytes.NewReader(data)); decodeErr == nil {
		cache.GenerateThumbnail(img, id)
		cache.GeneratePreview(img, id)
	}
	return id, nil
}
