package prompts

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultPath = "prompts.yaml"

// Built-in prompts. A prompts.yaml file (or PROMPTS_FILE) can override any
// key; templates keep their %s slots when overridden.
var defaults = map[string]string{
	// %s: candidate assignee display names, one per line.
	"autoissue_system": "You are a helpful assistant that creates Linear issue details from " +
		"Slack conversations. Create a concise title, detailed description, " +
		"and suggest a priority (1-4, where 1 is urgent and 4 is low). " +
		"If you think someone should be assigned, choose from these Linear users:\n\n" +
		"%s\n\n" +
		"Only suggest an assignee if you're confident about the match. NEVER assign someone if it's not specifically mentioned in the conversation who should take care of the issue.",

	// %s: the conversation transcript as "displayName: content" lines.
	"autoissue_user": "Create a Linear issue based on this conversation:\n\n%s\n\n" +
		"Format:\nTITLE: <title>\nDESCRIPTION: <description>\n" +
		"PRIORITY: <1-4>\nASSIGNEE: <exact Linear username or \"unassigned\" if not clearly mentioned in the conversation who should be assigned>",
}

var store map[string]string

// Load reads an optional YAML override file and merges it over the built-in
// defaults. A missing file at the default path is not an error.
func Load(path string) error {
	explicit := path != ""
	if path == "" {
		path = os.Getenv("PROMPTS_FILE")
		explicit = path != ""
	}
	if path == "" {
		path = defaultPath
	}

	merged := make(map[string]string, len(defaults))
	for k, v := range defaults {
		merged[k] = v
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			store = merged
			return nil
		}
		return fmt.Errorf("failed to read prompts file %s: %w", path, err)
	}

	parsed := make(map[string]string)
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse prompts file: %w", err)
	}

	for k, v := range parsed {
		merged[k] = v
	}

	store = merged
	return nil
}

func Get(key string) string {
	if store == nil {
		return defaults[key]
	}
	return store[key]
}

func MustGet(key string) string {
	val := Get(key)
	if val == "" {
		panic(fmt.Sprintf("prompt %q not found", key))
	}
	return val
}

// GetAll returns a copy of all loaded prompts.
func GetAll() map[string]string {
	src := store
	if src == nil {
		src = defaults
	}
	cp := make(map[string]string, len(src))
	for k, v := range src {
		cp[k] = v
	}
	return cp
}
