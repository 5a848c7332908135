package backup

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/chiahao/linebackup/internal/chatroom"
)

// ExtractRecords decodes every chatroom directory under the tree into a
// mapping-table record, in enumeration order. The caller writes the result
// to the CSV mapping table.
func ExtractRecords(tree *Tree, logger *slog.Logger) ([]chatroom.Record, error) {
	dirNames, err := listDirs(tree.Root())
	if err != nil {
		return nil, fmt.Errorf("listing chatroom directories in %s: %w", tree.Root(), err)
	}

	records := make([]chatroom.Record, 0, len(dirNames))
	for _, name := range dirNames {
		parsed := chatroom.DecodeDirName(name)
		if parsed.Confidence != chatroom.ConfidenceExact {
			logger.Debug("chatroom directory name parsed best-effort",
				slog.String("dir", name),
			)
		}
		records = append(records, parsed.Record)
	}

	return records, nil
}

// PrefixDirNames renames chatroom directories using the mapping table:
// every directory whose current name appears in the table with a non-empty
// label is renamed to its encoded name-ID form. In practice only bare-ID
// directories match, since table IDs are bare IDs. Already-renamed
// directories and table entries without a label are left alone. Returns
// the number of directories renamed.
func PrefixDirNames(tree *Tree, records []chatroom.Record, logger *slog.Logger) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	byID := make(map[string]chatroom.Record, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}

	dirNames, err := listDirs(tree.Root())
	if err != nil {
		return 0, fmt.Errorf("listing chatroom directories in %s: %w", tree.Root(), err)
	}

	renamed := 0
	for _, dirName := range dirNames {
		rec, ok := byID[dirName]
		if !ok || rec.Name == "" {
			continue
		}

		newName := chatroom.EncodeDirName(rec)
		if newName == dirName {
			continue
		}

		if err := os.Rename(filepath.Join(tree.Root(), dirName), filepath.Join(tree.Root(), newName)); err != nil {
			logger.Warn("renaming chatroom directory failed",
				slog.String("dir", dirName),
				slog.String("error", err.Error()),
			)
			continue
		}

		logger.Debug("renamed chatroom directory",
			slog.String("from", dirName),
			slog.String("to", newName),
		)
		renamed++
	}

	return renamed, nil
}
