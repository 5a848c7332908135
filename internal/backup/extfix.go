package backup

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chiahao/linebackup/internal/sniff"
)

// messageFolderExcludedExts lists extensions the content sniffer skips in
// the residual message folder. Voice notes already carry a reliable
// extension from the client and sniffing them adds nothing.
var messageFolderExcludedExts = []string{"aac"}

// CorrectExtensions normalizes file extensions across every chatroom of
// the tree: thumbnails and images get ".jpg" appended, original images and
// the residual message folder get a sniffed extension appended. Extensions
// are always appended, never substituted, so a wrong guess is recoverable.
// Folder-level failures are logged and the rest of the root continues.
func CorrectExtensions(tree *Tree, sniffer sniff.Sniffer, logger *slog.Logger) error {
	chatDirNames, err := listDirs(tree.Root())
	if err != nil {
		return fmt.Errorf("listing chatroom directories in %s: %w", tree.Root(), err)
	}

	for _, chatDirName := range chatDirNames {
		msgDir := tree.MessageDir(chatDirName)

		if err := AppendExtensions(ThumbnailDir(msgDir), ThumbnailExt, logger); err != nil {
			logger.Warn("appending thumbnail extensions failed",
				slog.String("chatroom", chatDirName),
				slog.String("error", err.Error()),
			)
		}

		if err := AppendExtensions(ImageDir(msgDir), ImageExt, logger); err != nil {
			logger.Warn("appending image extensions failed",
				slog.String("chatroom", chatDirName),
				slog.String("error", err.Error()),
			)
		}

		if _, err := FixExtensionsByContent(OriginalImageDir(msgDir), sniffer, nil, logger); err != nil {
			logger.Warn("sniffing original images failed",
				slog.String("chatroom", chatDirName),
				slog.String("error", err.Error()),
			)
		}

		if _, err := FixExtensionsByContent(msgDir, sniffer, messageFolderExcludedExts, logger); err != nil {
			logger.Warn("sniffing message folder failed",
				slog.String("chatroom", chatDirName),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// AppendExtensions appends "."+ext to every file in dir that does not
// already end in it. Existing name content is never replaced.
func AppendExtensions(dir, ext string, logger *slog.Logger) error {
	names, err := listFiles(dir)
	if err != nil {
		return err
	}

	suffix := "." + ext
	for _, name := range names {
		if strings.HasSuffix(name, suffix) {
			continue
		}

		if err := os.Rename(filepath.Join(dir, name), filepath.Join(dir, name+suffix)); err != nil {
			logger.Warn("appending extension failed",
				slog.String("file", name),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// FixExtensionsByContent sniffs every file in dir and appends the guessed
// extension. Files whose name already ends in an excluded extension are
// skipped. Files the sniffer cannot identify are logged and left
// untouched. The returned slice holds the distinct extensions observed in
// the folder, sorted, for diagnostic reporting only.
func FixExtensionsByContent(dir string, sniffer sniff.Sniffer, excludedExts []string, logger *slog.Logger) ([]string, error) {
	names, err := listFiles(dir)
	if err != nil {
		return nil, err
	}

	types := make(map[string]bool)

scan:
	for _, name := range names {
		for _, ext := range excludedExts {
			if strings.HasSuffix(name, "."+ext) {
				types[ext] = true
				continue scan
			}
		}

		path := filepath.Join(dir, name)
		prefix, err := readPrefix(path)
		if err != nil {
			logger.Warn("reading file for sniffing failed",
				slog.String("file", name),
				slog.String("error", err.Error()),
			)
			continue
		}

		ext, ok := sniffer.Guess(prefix)
		if !ok {
			logger.Info("cannot guess file type", slog.String("path", path))
			continue
		}

		types[ext] = true
		if strings.HasSuffix(name, "."+ext) {
			continue
		}

		if err := os.Rename(path, path+"."+ext); err != nil {
			logger.Warn("appending sniffed extension failed",
				slog.String("file", name),
				slog.String("error", err.Error()),
			)
		}
	}

	observed := make([]string, 0, len(types))
	for ext := range types {
		observed = append(observed, ext)
	}
	sort.Strings(observed)

	logger.Debug("extensions observed",
		slog.Any("types", observed),
		slog.String("dir", dir),
	)

	return observed, nil
}

// readPrefix reads the leading bytes the sniffer needs.
func readPrefix(path string) (_ []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	buf := make([]byte, sniff.ReadLimit)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}

	return buf[:n], nil
}
