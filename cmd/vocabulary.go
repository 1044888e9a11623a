package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/ats-scanner/internal/vocabulary"
)

var vocabularyCmd = &cobra.Command{
	Use:   "vocabulary",
	Short: "Print the skills and section headings used to read resumes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		path, _ := cmd.Flags().GetString("vocabulary")
		if path == "" {
			path = viper.GetString("vocabulary")
		}

		vocab, err := vocabulary.Load(path)
		if err != nil {
			log.Fatal(err)
		}

		pretty, err := json.MarshalIndent(vocab, "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
	},
}

func init() {
	rootCmd.AddCommand(vocabularyCmd)

	vocabularyCmd.Flags().String("vocabulary", "", "skills and section headings file (yaml, json or toml). Default is the built-in list.")
}
