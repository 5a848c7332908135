package backup

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chiahao/linebackup/internal/chatroom"
)

// Watermark is the sync cutoff derived from a destination tree: the
// maximum modification time among message files with a parseable message
// ID, plus the ID and chatroom that produced it (for logging). A zero
// watermark means the destination is empty and everything is copied.
//
// The watermark is recomputed from the destination contents on every run.
// There is deliberately no persisted cursor: the destination tree is the
// state, which keeps the sync resilient to manual destination edits.
type Watermark struct {
	ModTime     time.Time
	MessageID   int64
	ChatDirName string
}

// ChatroomFiles lists the source files to copy for one chatroom, keyed by
// the source directory name.
type ChatroomFiles struct {
	DirName string
	Files   []string
}

// Sync incrementally copies message files newer than the destination's
// watermark from a raw source tree into a normalized destination tree.
// It returns the number of files copied. Individual copy failures are
// logged and do not abort the batch or other chatrooms.
func Sync(src, dst *Tree, logger *slog.Logger) (int, error) {
	mark, err := FindWatermark(dst, logger)
	if err != nil {
		return 0, err
	}

	plan, err := FindFilesToSync(src, mark, logger)
	if err != nil {
		return 0, err
	}

	logger.Debug("message files to sync", slog.Int("chatrooms", len(plan)))

	dstIndex, err := BuildIndex(dst, logger)
	if err != nil {
		return 0, err
	}

	return CopyFiles(src, dstIndex, plan, logger), nil
}

// FindWatermark scans the destination tree, across all chatrooms and both
// the message folder and the thumbnails folder, for the newest file whose
// filename carries a message ID. Files with unparseable IDs exist on disk
// but are excluded from the computation.
func FindWatermark(dst *Tree, logger *slog.Logger) (Watermark, error) {
	var mark Watermark

	chatDirNames, err := listDirs(dst.Root())
	if err != nil {
		return mark, fmt.Errorf("listing chatroom directories in %s: %w", dst.Root(), err)
	}

	for _, chatDirName := range chatDirNames {
		var latest Watermark

		msgDir := dst.MessageDir(chatDirName)
		for _, dir := range []string{msgDir, ThumbnailDir(msgDir)} {
			names, err := listFiles(dir)
			if err != nil {
				// A chatroom without the folder yet is normal for a tree
				// that predates classification.
				logger.Debug("skipping unscannable folder",
					slog.String("dir", dir),
					slog.String("error", err.Error()),
				)
				continue
			}

			for _, name := range names {
				msgID := chatroom.MessageID(name)
				if msgID == 0 {
					continue
				}

				info, err := os.Stat(filepath.Join(dir, name))
				if err != nil {
					logger.Warn("stat failed during watermark scan",
						slog.String("file", name),
						slog.String("error", err.Error()),
					)
					continue
				}

				if info.ModTime().After(latest.ModTime) {
					latest = Watermark{ModTime: info.ModTime(), MessageID: msgID, ChatDirName: chatDirName}
				}
			}
		}

		if latest.ModTime.After(mark.ModTime) {
			mark = latest
		}

		logger.Debug("latest message file in chatroom",
			slog.Int64("msg_id", latest.MessageID),
			slog.Time("mtime", latest.ModTime),
			slog.String("chatroom", chatDirName),
		)
	}

	logger.Debug("watermark",
		slog.Int64("msg_id", mark.MessageID),
		slog.Time("mtime", mark.ModTime),
		slog.String("chatroom", mark.ChatDirName),
	)

	return mark, nil
}

// FindFilesToSync scans the raw source tree's flat message folders (no
// subfolder traversal) and returns, per chatroom, the files modified
// strictly after the watermark.
func FindFilesToSync(src *Tree, mark Watermark, logger *slog.Logger) ([]ChatroomFiles, error) {
	chatDirNames, err := listDirs(src.Root())
	if err != nil {
		return nil, fmt.Errorf("listing chatroom directories in %s: %w", src.Root(), err)
	}

	var plan []ChatroomFiles
	for _, chatDirName := range chatDirNames {
		msgDir := src.MessageDir(chatDirName)

		names, err := listFiles(msgDir)
		if err != nil {
			logger.Warn("scanning source chatroom failed",
				slog.String("chatroom", chatDirName),
				slog.String("error", err.Error()),
			)
			continue
		}

		var files []string
		for _, name := range names {
			info, err := os.Stat(filepath.Join(msgDir, name))
			if err != nil {
				logger.Warn("stat failed during source scan",
					slog.String("file", name),
					slog.String("error", err.Error()),
				)
				continue
			}

			if !info.ModTime().After(mark.ModTime) {
				continue
			}

			files = append(files, name)
		}

		if len(files) > 0 {
			plan = append(plan, ChatroomFiles{DirName: chatDirName, Files: files})
		}
	}

	return plan, nil
}

// CopyFiles copies each planned file into the destination chatroom's
// message folder, resolved through the destination index by chatroom ID. A
// chatroom present only in the source gets a fresh destination directory
// named by its bare ID. Copies preserve modification time and permission
// bits and are independent per file.
func CopyFiles(src *Tree, dstIndex *Index, plan []ChatroomFiles, logger *slog.Logger) int {
	copied := 0

	for _, cf := range plan {
		id := chatroom.DecodeDirName(cf.DirName).Record.ID

		dstMsgDir, err := dstIndex.EnsureMessageDir(id)
		if err != nil {
			logger.Warn("resolving destination message folder failed",
				slog.String("chatroom", cf.DirName),
				slog.String("error", err.Error()),
			)
			continue
		}

		srcMsgDir := src.MessageDir(cf.DirName)
		for _, name := range cf.Files {
			if err := copyFile(filepath.Join(srcMsgDir, name), filepath.Join(dstMsgDir, name)); err != nil {
				logger.Warn("copying message file failed",
					slog.String("chatroom", cf.DirName),
					slog.String("file", name),
					slog.String("error", err.Error()),
				)
				continue
			}
			copied++
		}
	}

	return copied
}

// copyFile copies src to dst, carrying over the source's permission bits
// and modification time.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}

	if err := out.Close(); err != nil {
		return err
	}

	mtime := info.ModTime()
	return os.Chtimes(dst, mtime, mtime)
}
