package backup

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ClassifyStats counts what one classification pass did to a chatroom.
type ClassifyStats struct {
	Thumbnails     int
	OriginalImages int
	// MissingImages counts thumbnails with no downloaded full image. The
	// client only downloads the full asset after the user opens it, so a
	// missing image is expected, not an error.
	MissingImages int
}

// Classify splits every chatroom's flat message folder under the tree into
// thumbnails, images and original_images subfolders. A chatroom whose
// message folder cannot be scanned or mutated is logged and skipped; the
// rest of the root is still classified. Re-running after a successful pass
// is a no-op: the top-level scan finds nothing left to move.
func Classify(tree *Tree, logger *slog.Logger) error {
	chatDirNames, err := listDirs(tree.Root())
	if err != nil {
		return fmt.Errorf("listing chatroom directories in %s: %w", tree.Root(), err)
	}

	for _, chatDirName := range chatDirNames {
		msgDir := tree.MessageDir(chatDirName)

		stats, err := classifyMessageDir(msgDir, logger)
		if err != nil {
			logger.Warn("classifying chatroom failed",
				slog.String("chatroom", chatDirName),
				slog.String("error", err.Error()),
			)
			continue
		}

		logger.Debug("classified chatroom",
			slog.String("chatroom", chatDirName),
			slog.Int("thumbnails", stats.Thumbnails),
			slog.Int("original_images", stats.OriginalImages),
			slog.Int("missing_images", stats.MissingImages),
		)
	}

	return nil
}

// classifyMessageDir classifies the immediate files of one message folder.
// Subdirectories, including already-separated subfolders from an earlier
// run, are never descended into.
func classifyMessageDir(msgDir string, logger *slog.Logger) (ClassifyStats, error) {
	var stats ClassifyStats

	names, err := listFiles(msgDir)
	if err != nil {
		return stats, err
	}

	var thumbBases, originalBases []string
	for _, name := range names {
		switch {
		case strings.HasSuffix(name, ThumbSuffix):
			thumbBases = append(thumbBases, strings.TrimSuffix(name, ThumbSuffix))
		case strings.HasSuffix(name, OriginalSuffix):
			originalBases = append(originalBases, strings.TrimSuffix(name, OriginalSuffix))
		}
	}

	thumbDir := ThumbnailDir(msgDir)
	imageDir := ImageDir(msgDir)
	originalDir := OriginalImageDir(msgDir)
	for _, dir := range []string{thumbDir, imageDir, originalDir} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return stats, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	for _, base := range thumbBases {
		fn := base + ThumbSuffix
		if err := os.Rename(filepath.Join(msgDir, fn), filepath.Join(thumbDir, fn)); err != nil {
			logger.Warn("moving thumbnail failed",
				slog.String("file", fn),
				slog.String("error", err.Error()),
			)
			continue
		}
		stats.Thumbnails++

		// Thumbnails exist for images, videos and link previews alike, but
		// only images may have a matching full file in the message folder,
		// and only if the user opened that attachment in the client.
		plain := filepath.Join(msgDir, base)
		if _, err := os.Stat(plain); err != nil {
			stats.MissingImages++
			logger.Debug("no downloaded image for thumbnail", slog.String("base", base))
			continue
		}

		if err := os.Rename(plain, filepath.Join(imageDir, base)); err != nil {
			logger.Warn("moving image failed",
				slog.String("file", base),
				slog.String("error", err.Error()),
			)
		}
	}

	for _, base := range originalBases {
		fn := base + OriginalSuffix
		if err := os.Rename(filepath.Join(msgDir, fn), filepath.Join(originalDir, fn)); err != nil {
			logger.Warn("moving original image failed",
				slog.String("file", fn),
				slog.String("error", err.Error()),
			)
			continue
		}
		stats.OriginalImages++
	}

	if stats.MissingImages > 0 {
		logger.Debug("thumbnails without downloaded images",
			slog.Int("missing", stats.MissingImages),
			slog.Int("thumbnails", stats.Thumbnails),
			slog.String("dir", msgDir),
		)
	}

	return stats, nil
}
