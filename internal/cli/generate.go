package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
	"github.com/kirillkom/pick-my-fit/internal/core/outfit"
	"github.com/kirillkom/pick-my-fit/internal/core/ports"
	"github.com/kirillkom/pick-my-fit/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/pick-my-fit/internal/infrastructure/resilience"
	"github.com/kirillkom/pick-my-fit/internal/infrastructure/schema/yamlfile"
	"github.com/kirillkom/pick-my-fit/internal/observability/logging"
)

const historyFileCap = 50

type generateOptions struct {
	wardrobePath   string
	historyPath    string
	saveHistory    bool
	theme          string
	pins           []string
	disabled       []string
	ollamaURL      string
	model          string
	advisorTimeout time.Duration
	seed           uint64
	thinkDelay     time.Duration
	asJSON         bool
}

// GenerateCmd returns the generate command
func GenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an outfit from a wardrobe file",
		Long: `Generate one outfit from the items in a wardrobe YAML file.

Recent outfits from --history are avoided. Pinned items always stay in their
slot and disabled categories stay empty. Without --ollama-url the random
selector is used directly.`,
		Example: `  pickmyfit generate -w wardrobe.yaml
  pickmyfit generate -w wardrobe.yaml --history history.json --save-history
  pickmyfit generate -w wardrobe.yaml --pin shoes=boots-1 --disable hats
  pickmyfit generate -w wardrobe.yaml --theme "rainy office day" --ollama-url http://localhost:11434`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.wardrobePath, "wardrobe", "w", "", "Wardrobe YAML file (required)")
	cmd.Flags().StringVar(&opts.historyPath, "history", "", "History JSON file, newest outfit first")
	cmd.Flags().BoolVar(&opts.saveHistory, "save-history", false, "Prepend the generated outfit to --history")
	cmd.Flags().StringVarP(&opts.theme, "theme", "t", "", "Free-text theme for the stylist")
	cmd.Flags().StringArrayVar(&opts.pins, "pin", nil, "Pin an item to a slot as slot=item_id (repeatable)")
	cmd.Flags().StringSliceVar(&opts.disabled, "disable", nil, "Categories to leave empty")
	cmd.Flags().StringVar(&opts.ollamaURL, "ollama-url", "", "Ollama base URL; enables the stylist")
	cmd.Flags().StringVar(&opts.model, "model", "llama3.1:8b", "Ollama model for the stylist")
	cmd.Flags().DurationVar(&opts.advisorTimeout, "advisor-timeout", 20*time.Second, "Stylist call timeout")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Random seed (0 picks one from the clock)")
	cmd.Flags().DurationVar(&opts.thinkDelay, "think-delay", 0, "Pause before the random pick")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("wardrobe")

	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootOptions, opts *generateOptions) error {
	if opts.saveHistory && opts.historyPath == "" {
		return fmt.Errorf("--save-history needs --history")
	}

	schema, err := yamlfile.Load(root.schemaPath)
	if err != nil {
		return err
	}
	items, err := loadWardrobe(opts.wardrobePath)
	if err != nil {
		return err
	}
	history, err := loadHistory(opts.historyPath)
	if err != nil {
		return err
	}
	pinned, err := parsePins(opts.pins)
	if err != nil {
		return err
	}
	enabled, err := parseDisabled(schema, opts.disabled)
	if err != nil {
		return err
	}

	logger := logging.NewJSONLoggerTo(cmd.ErrOrStderr(), "pickmyfit-cli", root.logLevel)
	tuning := outfit.DefaultTuning()
	tuning.ThinkDelay = opts.thinkDelay
	tuning.AdvisoryTimeout = opts.advisorTimeout

	var advisor ports.StylingAdvisor
	if opts.ollamaURL != "" {
		executor := resilience.NewExecutor(resilience.Config{
			RetryMaxAttempts: 1,
			BreakerEnabled:   false,
		}, resilience.WithLogger(logger))
		advisor = ollama.NewStylist(ollama.New(opts.ollamaURL, opts.model, opts.advisorTimeout, executor))
	}

	seed := opts.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	generator := outfit.NewGenerator(schema, outfit.Options{
		Tuning:  tuning,
		Advisor: advisor,
		Rand:    outfit.NewRand(seed),
		Logger:  logger,
	})

	result := generator.Generate(cmd.Context(), outfit.Input{
		Items:   items,
		Enabled: enabled,
		History: history,
		Theme:   strings.TrimSpace(opts.theme),
		Pinned:  pinned,
	})

	generated := domain.Outfit{
		ID:        uuid.NewString(),
		Items:     result.Items,
		Theme:     strings.TrimSpace(opts.theme),
		Source:    result.Source,
		CreatedAt: time.Now().UTC(),
	}
	if opts.saveHistory {
		history = append([]domain.Outfit{generated}, history...)
		if len(history) > historyFileCap {
			history = history[:historyFileCap]
		}
		if err := saveHistory(opts.historyPath, history); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(domain.GeneratedOutfit{Outfit: generated, Result: result})
	}
	renderOutfit(out, schema, generated, result, enabled, pinned)
	return nil
}

func parsePins(raw []string) (domain.PinnedItems, error) {
	pinned := make(domain.PinnedItems, len(raw))
	for _, pin := range raw {
		slot, itemID, ok := strings.Cut(pin, "=")
		slot, itemID = strings.TrimSpace(slot), strings.TrimSpace(itemID)
		if !ok || slot == "" || itemID == "" {
			return nil, fmt.Errorf("invalid --pin %q: want slot=item_id", pin)
		}
		pinned[slot] = itemID
	}
	return pinned, nil
}

func parseDisabled(schema *domain.Schema, raw []string) (domain.EnabledCategories, error) {
	enabled := make(domain.EnabledCategories, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if !schema.IsSlot(id) {
			return nil, fmt.Errorf("unknown category %q in --disable", id)
		}
		enabled[id] = false
	}
	return enabled, nil
}
