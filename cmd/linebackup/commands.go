package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chiahao/linebackup/internal/backup"
	"github.com/chiahao/linebackup/internal/chatroom"
	"github.com/chiahao/linebackup/internal/config"
	"github.com/chiahao/linebackup/internal/logging"
	"github.com/chiahao/linebackup/internal/sniff"
	"github.com/spf13/cobra"
)

var (
	flagOldChatsDir   string
	flagMessageIDsDir string
	flagSrcChatsDir   string
	flagRunInfer      bool
)

// run bundles the configuration and logger one command invocation needs.
type run struct {
	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer
}

// newRun loads the environment configuration, applies CLI flag overrides,
// finalizes paths, and builds the run logger. Errors here are
// configuration-class: they abort before anything is mutated.
func newRun() (*run, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if flagChatsDir != "" {
		cfg.ChatsDir = flagChatsDir
	}
	if flagTable != "" {
		cfg.TablePath = flagTable
	}
	if flagLogDir != "" {
		cfg.LogDir = flagLogDir
	}
	if flagOldChatsDir != "" {
		cfg.OldChatsDir = flagOldChatsDir
	}
	if flagMessageIDsDir != "" {
		cfg.MessageIDsDir = flagMessageIDsDir
	}
	if flagSrcChatsDir != "" {
		cfg.SrcChatsDir = flagSrcChatsDir
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}

	logger, closer, err := logging.NewFileLogger(cfg.Environment, cfg.LogDir)
	if err != nil {
		return nil, err
	}

	logger.Debug("linebackup starting",
		slog.String("version", Version),
		slog.String("chats_dir", cfg.ChatsDir),
		slog.String("chatroom_db", cfg.TablePath),
		slog.String("old_chats_dir", cfg.OldChatsDir),
		slog.String("src_chats_dir", cfg.SrcChatsDir),
	)

	return &run{cfg: cfg, logger: logger, closer: closer}, nil
}

func (r *run) Close() {
	r.closer.Close()
}

// inferenceRoot returns the configured inference output root, defaulting
// to the fixed `_MessageIDs` sibling of the chats directory.
func (r *run) inferenceRoot(tree *backup.Tree) string {
	if r.cfg.MessageIDsDir != "" {
		return r.cfg.MessageIDsDir
	}
	return tree.InferenceRoot()
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Classify, correct extensions, and optionally prefix, diff and infer",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRun()
		if err != nil {
			return err
		}
		defer r.Close()

		tree, err := backup.NewTree(r.cfg.ChatsDir)
		if err != nil {
			return err
		}

		if err := backup.Classify(tree, r.logger); err != nil {
			return err
		}

		if err := backup.CorrectExtensions(tree, sniff.MimeSniffer{}, r.logger); err != nil {
			return err
		}

		if r.cfg.TablePath != "" {
			if err := prefixFromTable(tree, r.cfg.TablePath, r.logger); err != nil {
				return err
			}
		}

		if r.cfg.OldChatsDir != "" {
			newIDs, err := backup.NewChatrooms(r.cfg.OldChatsDir, tree.Root())
			if err != nil {
				return err
			}
			r.logger.Info("new chatrooms", slog.Any("ids", newIDs))
		}

		if flagRunInfer {
			index, err := backup.BuildIndex(tree, r.logger)
			if err != nil {
				return err
			}
			if err := backup.InferMessageIDs(tree, index, r.inferenceRoot(tree), nil, r.logger); err != nil {
				return err
			}
		}

		return nil
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Split flat message folders into thumbnails/images/original_images",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRun()
		if err != nil {
			return err
		}
		defer r.Close()

		tree, err := backup.NewTree(r.cfg.ChatsDir)
		if err != nil {
			return err
		}

		return backup.Classify(tree, r.logger)
	},
}

var fixextCmd = &cobra.Command{
	Use:   "fixext",
	Short: "Append file extensions by suffix rule or content sniffing",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRun()
		if err != nil {
			return err
		}
		defer r.Close()

		tree, err := backup.NewTree(r.cfg.ChatsDir)
		if err != nil {
			return err
		}

		return backup.CorrectExtensions(tree, sniff.MimeSniffer{}, r.logger)
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Write the chatroom ID/name mapping table to CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRun()
		if err != nil {
			return err
		}
		defer r.Close()

		if r.cfg.TablePath == "" {
			return fmt.Errorf("extracting mappings requires --chatroom-db")
		}

		tree, err := backup.NewTree(r.cfg.ChatsDir)
		if err != nil {
			return err
		}

		records, err := backup.ExtractRecords(tree, r.logger)
		if err != nil {
			return err
		}

		if err := chatroom.WriteTable(r.cfg.TablePath, records); err != nil {
			return err
		}

		r.logger.Info("mapping table written",
			slog.String("path", r.cfg.TablePath),
			slog.Int("chatrooms", len(records)),
		)
		return nil
	},
}

var prefixCmd = &cobra.Command{
	Use:   "prefix",
	Short: "Prefix chatroom directories with names from the mapping table",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRun()
		if err != nil {
			return err
		}
		defer r.Close()

		if r.cfg.TablePath == "" {
			return fmt.Errorf("prefixing names requires --chatroom-db")
		}

		tree, err := backup.NewTree(r.cfg.ChatsDir)
		if err != nil {
			return err
		}

		return prefixFromTable(tree, r.cfg.TablePath, r.logger)
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Report chatrooms present in the backup but not in an older snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRun()
		if err != nil {
			return err
		}
		defer r.Close()

		if r.cfg.OldChatsDir == "" {
			return fmt.Errorf("diffing chatrooms requires --old-chats-dir")
		}

		newIDs, err := backup.NewChatrooms(r.cfg.OldChatsDir, r.cfg.ChatsDir)
		if err != nil {
			return err
		}

		r.logger.Info("new chatrooms", slog.Int("amount", len(newIDs)))
		if len(newIDs) > 0 {
			fmt.Println(strings.Join(newIDs, "\n"))
		}
		return nil
	},
}

var inferCmd = &cobra.Command{
	Use:   "infer [ROOM_ID...]",
	Short: "Infer message IDs with a thumbnail but no downloaded image",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRun()
		if err != nil {
			return err
		}
		defer r.Close()

		tree, err := backup.NewTree(r.cfg.ChatsDir)
		if err != nil {
			return err
		}

		index, err := backup.BuildIndex(tree, r.logger)
		if err != nil {
			return err
		}

		return backup.InferMessageIDs(tree, index, r.inferenceRoot(tree), args, r.logger)
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Incrementally copy message files from a raw backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRun()
		if err != nil {
			return err
		}
		defer r.Close()

		if r.cfg.SrcChatsDir == "" {
			return fmt.Errorf("copying from a raw backup requires --src-chats-dir")
		}

		src, err := backup.NewTree(r.cfg.SrcChatsDir)
		if err != nil {
			return err
		}

		dst, err := backup.NewTree(r.cfg.ChatsDir)
		if err != nil {
			return err
		}

		copied, err := backup.Sync(src, dst, r.logger)
		if err != nil {
			return err
		}

		r.logger.Info("sync complete", slog.Int("files_copied", copied))
		return nil
	},
}

// prefixFromTable reads the mapping table and renames matching chatroom
// directories.
func prefixFromTable(tree *backup.Tree, tablePath string, logger *slog.Logger) error {
	records, err := chatroom.ReadTable(tablePath)
	if err != nil {
		return err
	}

	renamed, err := backup.PrefixDirNames(tree, records, logger)
	if err != nil {
		return err
	}

	logger.Info("chatroom directories renamed", slog.Int("amount", renamed))
	return nil
}
