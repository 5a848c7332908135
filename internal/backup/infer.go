package backup

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// InferMessageIDs approximates, for each requested chatroom, which message
// IDs have a thumbnail but no downloaded image: assets shown to the user
// but never fully opened (videos, link previews, unviewed images). One
// marker file per inferred ID, named like the thumbnail, is copied into
// <inference-root>/<chatroom-dir>/. Markers that already exist are
// skipped, so re-running does not duplicate work.
//
// An empty chatroomIDs slice means all chatrooms known to the index.
// Inference reads only the already-separated thumbnail and image folders,
// so it must run after classification and correction.
func InferMessageIDs(tree *Tree, index *Index, inferenceRoot string, chatroomIDs []string, logger *slog.Logger) error {
	if err := os.MkdirAll(inferenceRoot, dirPerm); err != nil {
		return fmt.Errorf("creating inference root %s: %w", inferenceRoot, err)
	}

	if len(chatroomIDs) == 0 {
		chatroomIDs = index.IDs()
	}

	logger.Debug("inferring message IDs", slog.Int("chatrooms", len(chatroomIDs)))

	for _, id := range chatroomIDs {
		chatDirName, ok := index.Resolve(id)
		if !ok {
			logger.Debug("chatroom not in backup", slog.String("id", id))
			continue
		}

		if err := inferChatroom(tree, inferenceRoot, chatDirName, logger); err != nil {
			logger.Warn("inferring chatroom failed",
				slog.String("chatroom", chatDirName),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

func inferChatroom(tree *Tree, inferenceRoot, chatDirName string, logger *slog.Logger) error {
	msgDir := tree.MessageDir(chatDirName)
	thumbDir := ThumbnailDir(msgDir)

	thumbIDs, err := messageIDSet(thumbDir, ThumbSuffix+"."+ThumbnailExt)
	if err != nil {
		return err
	}

	imageIDs, err := messageIDSet(ImageDir(msgDir), "."+ImageExt)
	if err != nil {
		return err
	}

	var inferred []string
	for id := range thumbIDs {
		if !imageIDs[id] {
			inferred = append(inferred, id)
		}
	}

	if len(inferred) == 0 {
		return nil
	}

	// Ascending by message ID; non-numeric leftovers sort after, by name.
	slices.SortFunc(inferred, func(a, b string) int {
		na, aerr := strconv.ParseInt(a, 10, 64)
		nb, berr := strconv.ParseInt(b, 10, 64)
		switch {
		case aerr == nil && berr == nil:
			return cmp.Compare(na, nb)
		case aerr == nil:
			return -1
		case berr == nil:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})

	logger.Debug("approximate message IDs",
		slog.String("chatroom", chatDirName),
		slog.Int("amount", len(inferred)),
	)

	outDir := filepath.Join(inferenceRoot, chatDirName)
	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}

	for _, id := range inferred {
		fn := ThumbnailFileName(id)
		dst := filepath.Join(outDir, fn)
		if _, err := os.Stat(dst); err == nil {
			continue
		}

		if err := copyFile(filepath.Join(thumbDir, fn), dst); err != nil {
			logger.Warn("copying marker thumbnail failed",
				slog.String("file", fn),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// messageIDSet lists a folder and returns the set of filenames with the
// given suffix stripped.
func messageIDSet(dir, suffix string) (map[string]bool, error) {
	names, err := listFiles(dir)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]bool, len(names))
	for _, name := range names {
		ids[strings.TrimSuffix(name, suffix)] = true
	}

	return ids, nil
}
