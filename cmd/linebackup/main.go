package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "linebackup",
	Short: "LINE chat backup helper",
	Long: "Reorganizes a LINE chat backup into a normalized layout and keeps\n" +
		"two copies of the backup synchronized incrementally:\n" +
		"classify images into thumbnails/images/original_images folders,\n" +
		"append file extensions by suffix rule or content sniffing,\n" +
		"prefix chatroom folders with names from a CSV mapping table,\n" +
		"diff chatroom lists between snapshots, infer not-fully-downloaded\n" +
		"message IDs, and copy new files from a raw backup.",
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       Version,
}

// Persistent flag values. Empty means "not set"; newRun applies them over
// the environment configuration.
var (
	flagChatsDir string
	flagTable    string
	flagLogDir   string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagChatsDir, "chats-dir", "d", "",
		"normalized backup root (your copy of the LINE `chats` directory)")
	rootCmd.PersistentFlags().StringVarP(&flagTable, "chatroom-db", "l", "",
		"CSV mapping table of chatroom IDs and names")
	rootCmd.PersistentFlags().StringVar(&flagLogDir, "log-dir", "",
		"directory for the run's log file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(fixextCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(prefixCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(inferCmd)
	rootCmd.AddCommand(syncCmd)

	runCmd.Flags().StringVar(&flagOldChatsDir, "old-chats-dir", "",
		"prior backup snapshot to diff chatroom lists against")
	runCmd.Flags().BoolVar(&flagRunInfer, "infer", false,
		"also infer not-fully-downloaded message IDs for all chatrooms")

	diffCmd.Flags().StringVar(&flagOldChatsDir, "old-chats-dir", "",
		"prior backup snapshot to diff chatroom lists against")

	inferCmd.Flags().StringVar(&flagMessageIDsDir, "output-dir", "",
		"inference output root (default: `_MessageIDs` beside the chats directory)")

	syncCmd.Flags().StringVarP(&flagSrcChatsDir, "src-chats-dir", "s", "",
		"raw backup root to copy new message files from")
}
