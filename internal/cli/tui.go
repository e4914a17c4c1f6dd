package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/idilsaglam/snaptodo/internal/capture"
	"github.com/idilsaglam/snaptodo/internal/tui"
)

func runTUI(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s, err := app.openSession(ctx)
	if err != nil {
		return err
	}
	if err := s.store.WatchExternal(ctx); err != nil {
		log.Warn().Err(err).Msg("not watching the database for other writers")
	}

	cfg := app.cfg
	runErr := tui.Run(ctx, s.ctrl, tui.Options{
		Permissions:   capture.FilePermissions{Path: cfg.PermissionFile()},
		ImagesDir:     cfg.ImagesDir(),
		GalleryDir:    cfg.GalleryDir,
		CameraCommand: cfg.CameraCommand,
		Errors:        s.errs,
	})
	closeErr := s.close()
	if runErr != nil {
		return fmt.Errorf("tui: %w", runErr)
	}
	return closeErr
}
