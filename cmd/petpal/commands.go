package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/petpal/internal/chat"
	"github.com/muurk/petpal/internal/config"
	"github.com/muurk/petpal/internal/logging"
	"github.com/muurk/petpal/internal/petpalapi"
	"github.com/muurk/petpal/internal/session"
	"github.com/muurk/petpal/internal/tui"
	"github.com/muurk/petpal/internal/ui"
)

// Global flags
var (
	apiURL       string
	configPath   string
	dietary      []string
	ageGroup     string
	outputFormat string
	logLevel     string
)

// Command flags
var (
	moreRecipes bool
	recipeCount int
	forceInit   bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "PetPal service address (overrides api.base_url)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: platform config dir)")
	rootCmd.PersistentFlags().StringArrayVar(&dietary, "diet", nil, "Dietary option, repeatable (e.g. --diet grain-free --diet low-fat)")
	rootCmd.PersistentFlags().StringVar(&ageGroup, "age", "", "Age group: puppyhood, adult or senior")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: silent)")

	rootCmd.AddCommand(identifyCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(recipesCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(configCmd)
}

// env is everything a command needs, built from the config file and flags
type env struct {
	settings *config.Settings
	client   *petpalapi.Client
	prefs    session.Preferences
	printer  *ui.Printer
	stderr   io.Writer
}

// loadSettings reads --config or the default config file
func loadSettings() (*config.Settings, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// setup loads settings, applies flag overrides and initializes logging.
// With logToFile set, logs go to the configured file or the default log
// path so they stay off the terminal UI; otherwise they go to stderr.
func setup(cmd *cobra.Command, logToFile bool) (*env, error) {
	format, err := ui.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}

	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	level := logLevel
	if level == "" {
		level = settings.Logging.Level
	}
	logPath := settings.Logging.File
	if logToFile {
		if logPath, err = settings.GetLogPath(); err != nil {
			return nil, err
		}
	}
	if err := logging.InitializeWithOutput(level, logPath); err != nil {
		return nil, err
	}

	baseURL := settings.API.BaseURL
	if apiURL != "" {
		baseURL = apiURL
	}

	client := petpalapi.NewClientWithURL(baseURL)
	client.SetTimeout(settings.API.RequestTimeout)
	client.SetImageTimeout(settings.API.ImageTimeout)

	prefs := session.Preferences{
		AgeGroup:    settings.Preferences.AgeGroup,
		Dietary:     settings.Preferences.Dietary,
		DarkMode:    settings.Preferences.DarkMode,
		RecipeCount: settings.Preferences.RecipeCount,
	}
	if ageGroup != "" {
		prefs.AgeGroup = ageGroup
	}
	if cmd.Flags().Changed("diet") {
		prefs.Dietary = splitDietary(dietary)
	}

	logging.Debug("Command configured",
		zap.String("command", cmd.CommandPath()),
		zap.String("base_url", baseURL),
		zap.String("age_group", prefs.AgeGroup),
		zap.Strings("dietary", prefs.Dietary),
	)

	return &env{
		settings: settings,
		client:   client,
		prefs:    prefs,
		printer:  ui.NewPrinter(cmd.OutOrStdout()).SetFormat(format),
		stderr:   cmd.ErrOrStderr(),
	}, nil
}

// splitDietary accepts both repeated flags and comma-joined values
func splitDietary(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, petpalapi.SplitDietaryOptions(v)...)
	}
	return out
}

// runnerOutput keeps stdout clean for JSON by moving progress to stderr
func (e *env) runnerOutput() io.Writer {
	if e.printer.Format() == ui.FormatJSON {
		return e.stderr
	}
	return e.printer.Writer()
}

// params builds the header parameters shared by breed commands
func (e *env) params(extra map[string]string) map[string]string {
	params := map[string]string{
		"Age group": petpalapi.AgeGroupLabel(e.prefs.AgeGroup),
		"Dietary":   strings.Join(e.prefs.Dietary, ", "),
	}
	for k, v := range extra {
		params[k] = v
	}
	return params
}

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer logging.Sync()

	ctx := cmd.Context()
	controller := session.NewController(e.client, e.prefs)
	model := tui.NewAppModel(ctx, controller, e.client)

	logging.Info("Starting terminal UI", zap.String("session_id", controller.ID()))

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal UI error: %w", err)
	}

	return nil
}

// identifyCmd analyzes a photo
var identifyCmd = &cobra.Command{
	Use:   "identify <image>",
	Short: "Identify a dog's breed from a photo",
	Long: `Upload a dog photo, identify its breed and generate personalized recipes.

The image is checked locally first: it must be a non-empty image file.
Analysis can take 10-30 seconds when the service is cold.`,
	Example: `  # Identify a breed with default preferences
  petpal identify rex.jpg

  # Senior dog with dietary restrictions
  petpal identify rex.jpg --age senior --diet grain-free --diet low-fat

  # JSON output for scripting
  petpal identify rex.jpg --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runIdentify,
}

func runIdentify(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer logging.Sync()

	path := args[0]
	controller := session.NewController(e.client, e.prefs)

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Breed Identification",
		Command: "petpal identify",
		Params:  e.params(map[string]string{"Image": path}),
		Steps:   []string{"Reading image", "Analyzing image"},
		Output:  e.runnerOutput(),
	})

	err = runner.Run(cmd.Context(), func(ctx context.Context, onStep ui.StepCallback) error {
		onStep(1, ui.StepRunning, "")
		file, err := petpalapi.LoadImageFile(path)
		if err != nil {
			onStep(1, ui.StepFailed, "")
			return err
		}
		if err := ui.NoticeErr(controller.SelectFile(file)); err != nil {
			onStep(1, ui.StepFailed, "")
			return err
		}
		onStep(1, ui.StepComplete, fmt.Sprintf("%s, %s", file.ContentType, humanize.Bytes(uint64(file.Size()))))

		onStep(2, ui.StepRunning, session.StatusAnalyzingImage)
		if err := ui.NoticeErr(controller.Analyze(ctx, "")); err != nil {
			onStep(2, ui.StepFailed, "")
			return err
		}
		onStep(2, ui.StepComplete, controller.Snapshot().Result.Breed)
		return nil
	})
	if err != nil {
		return err
	}

	return printSessionResult(e, controller)
}

// searchCmd looks a breed up by name
var searchCmd = &cobra.Command{
	Use:   "search <breed>",
	Short: "Look up a breed by name",
	Long: `Look up a breed by name and generate personalized recipes for it.

Use 'petpal catalog breeds' to list the popular breeds.`,
	Example: `  # Search by breed name
  petpal search "Golden Retriever"

  # Puppy recipes, compact output
  petpal search beagle --age puppyhood --format compact`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer logging.Sync()

	breed := strings.Join(args, " ")
	controller := session.NewController(e.client, e.prefs)
	controller.SwitchMode(session.ModeTextSearch)

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Breed Search",
		Command: "petpal search",
		Params:  e.params(map[string]string{"Breed": breed}),
		Steps:   []string{"Searching breed"},
		Output:  e.runnerOutput(),
	})

	err = runner.Run(cmd.Context(), func(ctx context.Context, onStep ui.StepCallback) error {
		onStep(1, ui.StepRunning, session.StatusSearchingBreed)
		if err := ui.NoticeErr(controller.Analyze(ctx, breed)); err != nil {
			onStep(1, ui.StepFailed, "")
			return err
		}
		onStep(1, ui.StepComplete, controller.Snapshot().Result.Breed)
		return nil
	})
	if err != nil {
		return err
	}

	return printSessionResult(e, controller)
}

// printSessionResult prints the stored breed result with its current recipes
func printSessionResult(e *env, controller *session.Controller) error {
	state := controller.Snapshot()
	if state.Result == nil {
		return errors.New("no breed result")
	}

	result := *state.Result
	result.Recipes = state.Recipes

	if e.printer.Format() != ui.FormatJSON {
		e.printer.Newline()
	}
	return e.printer.PrintBreedResult(&result, state.AgeGroup)
}

// recipesCmd generates a recipe batch for a known breed
var recipesCmd = &cobra.Command{
	Use:   "recipes <breed>",
	Short: "Generate recipes for a breed",
	Long: `Generate a batch of personalized recipes for a breed without identifying it.

With --more a fresh batch is requested, the same as the "Generate More
Recipes" action in the terminal UI.`,
	Example: `  # Three recipes for an adult Beagle
  petpal recipes beagle

  # Five fresh recipes, grain free
  petpal recipes beagle --more --count 5 --diet grain-free`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecipes,
}

func init() {
	recipesCmd.Flags().BoolVar(&moreRecipes, "more", false, "Request a fresh batch (generate_more_recipes)")
	recipesCmd.Flags().IntVar(&recipeCount, "count", 0, "Number of recipes (default: preferences.recipe_count)")
}

func runRecipes(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer logging.Sync()

	count := e.prefs.RecipeCount
	if recipeCount != 0 {
		count = recipeCount
	}
	if count < 1 || count > config.MaxRecipeCount {
		return fmt.Errorf("--count must be between 1 and %d, got %d", config.MaxRecipeCount, count)
	}

	query := petpalapi.RecipeQuery{
		Breed:          strings.Join(args, " "),
		DietaryOptions: petpalapi.JoinDietaryOptions(e.prefs.Dietary),
		AgeGroup:       e.prefs.AgeGroup,
		Count:          count,
	}

	status := "Generating recipes..."
	if moreRecipes {
		status = session.StatusGeneratingMore
	}

	var cards []petpalapi.RecipeCard
	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Recipe Generation",
		Command: "petpal recipes",
		Params:  e.params(map[string]string{"Breed": query.Breed, "Count": fmt.Sprint(count)}),
		Steps:   []string{"Generating recipes"},
		Output:  e.runnerOutput(),
	})

	err = runner.Run(cmd.Context(), func(ctx context.Context, onStep ui.StepCallback) error {
		onStep(1, ui.StepRunning, status)
		var err error
		if moreRecipes {
			cards, err = e.client.GenerateMoreRecipes(ctx, query)
		} else {
			cards, err = e.client.GetRecipes(ctx, query)
		}
		if err != nil {
			onStep(1, ui.StepFailed, "")
			return err
		}
		onStep(1, ui.StepComplete, fmt.Sprintf("%d recipe(s)", len(cards)))
		return nil
	})
	if err != nil {
		return err
	}

	if e.printer.Format() != ui.FormatJSON {
		e.printer.Newline()
	}
	return e.printer.PrintRecipes(query.Breed, cards)
}

// askCmd asks the assistant one question
var askCmd = &cobra.Command{
	Use:   "ask <breed|general> <question...>",
	Short: "Ask the assistant about a breed",
	Long: `Ask the PetPal assistant one question about a breed.

Use "general" as the breed for questions about dog care in general.
Each invocation is a new conversation; no history is sent.`,
	Example: `  # Breed question
  petpal ask beagle "How much exercise does it need?"

  # General question
  petpal ask general "Can dogs eat grapes?"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer logging.Sync()

	topic := args[0]
	question := strings.Join(args[1:], " ")

	var conversation *chat.Session
	if strings.EqualFold(topic, chat.GeneralTopic) {
		conversation = chat.NewGeneralSession(e.client)
	} else {
		conversation = chat.NewSession(e.client, topic)
	}

	q := conversation.Submit(question)
	if q == nil {
		return errors.New("question must not be empty")
	}

	reply := q.Run(cmd.Context())
	conversation.Resolve(reply)
	if reply.Err != nil {
		e.printer.PrintError("Question failed", reply.Err)
		return fmt.Errorf("chatbot request failed: %w", reply.Err)
	}

	return e.printer.PrintAnswer(conversation.Topic(), question, reply.Answer)
}

// catalogCmd lists the service's catalogs
var catalogCmd = &cobra.Command{
	Use:       "catalog [dietary|ages|breeds]",
	Short:     "List dietary options, age groups or popular breeds",
	ValidArgs: []string{"dietary", "ages", "breeds"},
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	Example: `  # Everything the terminal UI loads at startup
  petpal catalog

  # Just the dietary options, one per line
  petpal catalog dietary --format compact`,
	RunE: runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer logging.Sync()

	ctx := cmd.Context()
	p := e.printer

	if len(args) == 0 {
		controller := session.NewController(e.client, e.prefs)
		if err := controller.Bootstrap(ctx); err != nil {
			p.PrintError(session.APIStatusFailed, err)
			return err
		}
		catalog := controller.Snapshot().Catalog

		if p.Format() == ui.FormatJSON {
			return p.PrintJSON(struct {
				DietaryOptions []string          `json:"dietary_options"`
				AgeGroups      []string          `json:"age_groups"`
				PopularBreeds  map[string]string `json:"popular_breeds"`
			}{catalog.DietaryOptions, catalog.AgeGroups, catalog.PopularBreeds})
		}

		if err := p.PrintList("Dietary Options", catalog.DietaryOptions); err != nil {
			return err
		}
		p.Newline()
		if err := p.PrintList("Age Groups", catalog.AgeGroups); err != nil {
			return err
		}
		p.Newline()
		return p.PrintBreedLinks(catalog.PopularBreeds)
	}

	switch args[0] {
	case "dietary":
		options, err := e.client.GetDietaryOptions(ctx)
		if err != nil {
			p.PrintError("Failed to load dietary options", err)
			return err
		}
		return p.PrintList("Dietary Options", options)

	case "ages":
		groups, err := e.client.GetAgeGroups(ctx)
		if err != nil {
			p.PrintError("Failed to load age groups", err)
			return err
		}
		return p.PrintList("Age Groups", groups)

	default:
		breeds, err := e.client.GetPopularBreeds(ctx)
		if err != nil {
			p.PrintError("Failed to load popular breeds", err)
			return err
		}
		return p.PrintBreedLinks(breeds)
	}
}

// healthCmd checks the service
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the PetPal service is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer logging.Sync()

		status, err := e.client.HealthCheck(cmd.Context())
		if err != nil {
			e.printer.PrintError("Service is unreachable", err)
			return err
		}
		return e.printer.PrintHealth(status)
	},
}

// configCmd manages the config file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		if err := config.Init(path, forceInit); err != nil {
			return err
		}
		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Configuration written", map[string]string{"Path": path})
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		data, err := settings.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}
