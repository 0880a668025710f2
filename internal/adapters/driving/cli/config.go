package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change configuration.

Useful keys:
  provider.name                    openai or ollama
  provider.openai.api_key          OpenAI API key
  provider.openai.chat_model       chat model (default gpt-4o-mini)
  provider.openai.embedding_model  embedding model (default text-embedding-3-small)
  provider.ollama.base_url         Ollama server URL
  storage.backend                  sqlite or memory`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Printf("Config file: %s\n", configStore.Path())
	cmd.Println()

	keys := []string{
		"provider.name",
		"provider.openai.api_key",
		"provider.openai.chat_model",
		"provider.openai.embedding_model",
		"provider.ollama.base_url",
		"provider.ollama.chat_model",
		"provider.ollama.embedding_model",
		"storage.backend",
	}
	for _, key := range keys {
		value, ok := configStore.Get(key)
		if !ok {
			continue
		}
		if s, isString := value.(string); isString && strings.HasSuffix(key, "api_key") {
			value = maskAPIKey(s)
		}
		cmd.Printf("  %s = %v\n", key, value)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	value, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q not set", args[0])
	}
	cmd.Printf("%v\n", value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	if err := configStore.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s\n", args[0])
	return nil
}

// maskAPIKey hides all but the last four characters of a key.
func maskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
