// Package backup implements the reconciliation engine for a LINE chat
// backup tree: the per-root directory index, the asset classifier, the
// extension corrector, the incremental sync engine, and message-ID
// inference. All components operate on the same layout:
//
//	<root>/<chatroom-dir>/messages/                  residual assets
//	<root>/<chatroom-dir>/messages/thumbnails/       *.thumb.jpg
//	<root>/<chatroom-dir>/messages/images/           downloaded full images
//	<root>/<chatroom-dir>/messages/original_images/  *.original.<ext>
package backup

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// MessagesDirName is the per-chatroom folder holding message assets.
	MessagesDirName = "messages"
	// ThumbnailsDirName holds preview assets split out by the classifier.
	ThumbnailsDirName = "thumbnails"
	// ImagesDirName holds downloaded full-resolution images.
	ImagesDirName = "images"
	// OriginalImagesDirName holds original-quality image variants.
	OriginalImagesDirName = "original_images"

	// ThumbSuffix and OriginalSuffix are the pre-extension filename markers
	// the LINE client uses for thumbnail and original-image assets.
	ThumbSuffix    = ".thumb"
	OriginalSuffix = ".original"

	// ThumbnailExt and ImageExt are the extensions forced onto thumbnail
	// and image files by the corrector's append mode.
	ThumbnailExt = "jpg"
	ImageExt     = "jpg"

	// InferenceRootDirName is the fixed sibling of the chats root that
	// receives per-chatroom message-ID marker files.
	InferenceRootDirName = "_MessageIDs"

	// dirPerm is the mode for directories created inside a backup tree.
	dirPerm = fs.FileMode(0o755)
)

// Tree is a backup tree rooted at a chats directory. It only knows the
// layout; scanning and mutation live with the components that need them.
type Tree struct {
	root string
}

// NewTree opens an existing backup tree. A missing or non-directory root
// is a configuration error and aborts before anything is mutated.
func NewTree(root string) (*Tree, error) {
	if root == "" {
		return nil, fmt.Errorf("backup root must not be empty")
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("backup root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("backup root %s is not a directory", root)
	}

	return &Tree{root: root}, nil
}

// Root returns the chats directory this tree is rooted at.
func (t *Tree) Root() string {
	return t.root
}

// MessageDir returns the message folder path for a chatroom directory name.
func (t *Tree) MessageDir(chatDirName string) string {
	return filepath.Join(t.root, chatDirName, MessagesDirName)
}

// InferenceRoot returns the message-ID marker root beside the chats root.
func (t *Tree) InferenceRoot() string {
	return filepath.Join(filepath.Dir(t.root), InferenceRootDirName)
}

// ThumbnailDir returns the thumbnails folder under a message folder.
func ThumbnailDir(msgDir string) string {
	return filepath.Join(msgDir, ThumbnailsDirName)
}

// ImageDir returns the images folder under a message folder.
func ImageDir(msgDir string) string {
	return filepath.Join(msgDir, ImagesDirName)
}

// OriginalImageDir returns the original-images folder under a message folder.
func OriginalImageDir(msgDir string) string {
	return filepath.Join(msgDir, OriginalImagesDirName)
}

// ThumbnailFileName returns the classified-and-corrected thumbnail filename
// for a message ID, e.g. "43312.thumb.jpg".
func ThumbnailFileName(msgID string) string {
	return msgID + ThumbSuffix + "." + ThumbnailExt
}

// listFiles returns the names of the immediate regular files in dir, in
// enumeration order. Subdirectories are skipped, never descended into.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}

	return names, nil
}

// listDirs returns the names of the immediate subdirectories of dir, in
// enumeration order.
func listDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}

	return names, nil
}
