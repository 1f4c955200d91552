// Package main provides a command-line restorer that runs one photo through the same session flow as the HTTP API
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/UnendingLoop/PhotoRestorer/internal/appconfig"
	"github.com/UnendingLoop/PhotoRestorer/internal/model"
	"github.com/UnendingLoop/PhotoRestorer/internal/mwlogger"
	"github.com/UnendingLoop/PhotoRestorer/internal/restorer"
	"github.com/UnendingLoop/PhotoRestorer/internal/service"
	"github.com/UnendingLoop/PhotoRestorer/internal/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/wb-go/wbf/config"
)

// CLI flags
var (
	aspectRatioFlag string
	noteFlag        string
	outFlag         string
	modelFlag       string
	verboseFlag     bool
)

var rootCmd = &cobra.Command{
	Use:   "restore <photo>",
	Short: "Restore an old or damaged photo with Gemini",
	Long: `Restore sends one photo to the image model and writes the restored PNG.

The API key is read from GEMINI_API_KEY (or API_KEY), also from ./.env.

Examples:
  restore grandma.jpg
  restore scan.png --aspect-ratio 3:4 --note "remove the stain in the corner"
  restore photo.webp -o restored.png --model gemini-3-pro-image-preview`,
	Args: cobra.ExactArgs(1),
	RunE: runMain,
}

func init() {
	rootCmd.Flags().StringVarP(&aspectRatioFlag, "aspect-ratio", "a", string(model.DefaultAspectRatio), "Output aspect ratio: 1:1, 3:4, 4:3, 9:16, 16:9")
	rootCmd.Flags().StringVarP(&noteFlag, "note", "n", "", "Additional instructions for the restoration")
	rootCmd.Flags().StringVarP(&outFlag, "out", "o", "", "Output file or directory (default restored-<unix-ms>.png next to the photo)")
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Gemini model to use (default from GEMINI_MODEL)")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initLogging() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verboseFlag {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func runMain(cmd *cobra.Command, args []string) error {
	initLogging()
	cmd.SilenceUsage = true

	appConfig := config.New()
	appConfig.EnableEnv("")
	if err := appConfig.LoadEnvFiles("./.env"); err != nil {
		log.Debug().Err(err).Msg("no .env loaded")
	}
	settings := appconfig.Load(appConfig)
	if modelFlag != "" {
		settings.Model = modelFlag
	}

	// запрос к модели ждем до конца, дедлайна нет
	ctx := mwlogger.WithLogger(cmd.Context(), log.Logger)

	client, err := restorer.NewGeminiClient(ctx, settings.APIKey)
	if err != nil {
		return err
	}
	svc := service.NewRestorationService(session.NewStore(settings.SessionTTL), restorer.New(client.Models, settings.Model), settings.PreviewSize)

	return restoreFile(ctx, svc, args[0])
}

// restoreFile drives a single session: create with source and config, restore, download
func restoreFile(ctx context.Context, svc *service.RestorationService, path string) error {
	upload, closer, err := openUpload(path)
	if err != nil {
		return err
	}
	defer closer.Close()

	view, err := svc.CreateSession(ctx, upload, &model.RestorationConfig{
		AspectRatio:       model.AspectRatio(aspectRatioFlag),
		PromptEnhancement: noteFlag,
	})
	if err != nil {
		return err
	}
	id := view.ID.String()

	log.Info().
		Str("file", path).
		Str("aspect_ratio", string(view.Config.AspectRatio)).
		Msg("Restoring photo")

	view, err = svc.Restore(ctx, id)
	if err != nil {
		if view != nil && view.ErrorMessage != "" {
			return errors.New(view.ErrorMessage)
		}
		return err
	}

	r, size, name, err := svc.Download(ctx, id)
	if err != nil {
		return err
	}

	out := outputPath(outFlag, path, name)
	if err := writeFile(out, r); err != nil {
		return err
	}

	log.Info().Str("out", out).Int64("bytes", size).Msg("Restored photo saved")
	return svc.DeleteSession(ctx, id)
}

func openUpload(path string) (*model.UploadData, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open photo: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to stat photo: %w", err)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		f.Close()
		return nil, nil, fmt.Errorf("failed to read photo: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to read photo: %w", err)
	}

	return &model.UploadData{
		File:        f,
		ContentType: detectContentType(path, head[:n]),
		Size:        info.Size(),
		Filename:    filepath.Base(path),
	}, f, nil
}

// detectContentType trusts a known image extension and sniffs the bytes otherwise
func detectContentType(path string, head []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); strings.HasPrefix(ct, "image/") {
		return ct
	}
	return http.DetectContentType(head)
}

// outputPath places the download next to the photo unless --out names a file or an existing directory
func outputPath(out, photo, name string) string {
	switch {
	case out == "":
		return filepath.Join(filepath.Dir(photo), name)
	case isDir(out):
		return filepath.Join(out, name)
	default:
		return out
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func writeFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	return f.Close()
}
