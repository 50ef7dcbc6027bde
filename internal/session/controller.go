package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/petpal/internal/logging"
	"github.com/muurk/petpal/internal/petpalapi"
)

// API is the subset of the transport client the controller drives.
// *petpalapi.Client satisfies it.
type API interface {
	PredictBreedFromImage(ctx context.Context, file petpalapi.ImageFile, dietaryOptions, ageGroup string) ([]petpalapi.BreedResult, error)
	PredictBreedFromText(ctx context.Context, breed, dietaryOptions, ageGroup string) (*petpalapi.BreedResult, error)
	GenerateMoreRecipes(ctx context.Context, query petpalapi.RecipeQuery) ([]petpalapi.RecipeCard, error)
	GetDietaryOptions(ctx context.Context) ([]string, error)
	GetAgeGroups(ctx context.Context) ([]string, error)
	GetPopularBreeds(ctx context.Context) (map[string]string, error)
}

// Preferences seed a new session
type Preferences struct {
	AgeGroup    string
	Dietary     []string
	DarkMode    bool
	RecipeCount int
}

// Controller owns the session state and sequences transport calls.
// It is safe for concurrent use: the UI goroutine mutates it while
// background commands run Pending calls.
type Controller struct {
	mu    sync.Mutex
	api   API
	id    string
	state State
}

// NewController creates a controller in image mode, phase Idle
func NewController(api API, prefs Preferences) *Controller {
	age := prefs.AgeGroup
	if age == "" {
		age = petpalapi.DefaultAgeGroup
	}
	count := prefs.RecipeCount
	if count <= 0 {
		count = petpalapi.DefaultRecipeCount
	}

	var dietary []string
	for _, option := range prefs.Dietary {
		if option = strings.TrimSpace(option); option != "" && !contains(dietary, option) {
			dietary = append(dietary, option)
		}
	}

	c := &Controller{
		api: api,
		id:  uuid.NewString(),
		state: State{
			Mode:        ModeImage,
			Phase:       PhaseIdle,
			Dietary:     dietary,
			AgeGroup:    age,
			RecipeCount: count,
			DarkMode:    prefs.DarkMode,
		},
	}

	logging.Debug("Session created",
		zap.String("session_id", c.id),
		zap.String("age_group", age),
		zap.Strings("dietary", dietary),
	)

	return c
}

// ID returns the session identifier used in logs
func (c *Controller) ID() string {
	return c.id
}

// Snapshot returns an independent copy of the current state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// SwitchMode resets the breed workflow for the new mode: no file, no result,
// no recipes, chat hidden, not loading, phase Idle. Dietary, age group and
// theme selections survive. Any in-flight call becomes stale.
func (c *Controller) SwitchMode(mode Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Mode = mode
	c.state.Phase = PhaseIdle
	c.state.File = nil
	c.state.Result = nil
	c.state.Recipes = nil
	c.state.ChatVisible = false
	c.state.Loading = false
	c.state.StatusLabel = ""
	c.state.Generation++

	logging.Debug("Mode switched",
		zap.String("session_id", c.id),
		zap.String("mode", mode.String()),
		zap.Uint64("generation", c.state.Generation),
	)
}

// SelectFile stores the image to analyze next. It never calls the network.
// Picking a new image after a result clears that result.
func (c *Controller) SelectFile(file petpalapi.ImageFile) Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Mode != ModeImage {
		return c.notice(precondition(MsgImageModeOnly))
	}
	if c.state.Loading {
		return c.notice(precondition(MsgBusy))
	}
	if err := c.moveTo(PhaseFileSelected); err != nil {
		return c.notice(precondition(MsgBusy))
	}

	c.state.File = &file
	c.state.Result = nil
	c.state.Recipes = nil
	c.state.ChatVisible = false

	return Notice{}
}

// ToggleDietary adds option to the selection, or removes it if present.
// Toggling twice restores the previous selection.
func (c *Controller) ToggleDietary(option string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, selected := range c.state.Dietary {
		if selected == option {
			c.state.Dietary = append(c.state.Dietary[:i:i], c.state.Dietary[i+1:]...)
			return
		}
	}
	c.state.Dietary = append(c.state.Dietary, option)
}

// SetAgeGroup selects the age group for the next call. Empty resets to adult.
func (c *Controller) SetAgeGroup(group string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if group == "" {
		group = petpalapi.DefaultAgeGroup
	}
	c.state.AgeGroup = group
}

// ToggleTheme flips dark mode
func (c *Controller) ToggleTheme() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.DarkMode = !c.state.DarkMode
}

// BeginAnalyze validates preconditions and starts an analysis. In image mode
// the selected file is analyzed and searchText is ignored; in text mode the
// trimmed searchText is the breed. On a precondition failure the returned
// Pending is nil and no network call may be made.
func (c *Controller) BeginAnalyze(searchText string) (*Pending, Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Loading {
		return nil, c.notice(precondition(MsgBusy))
	}

	p := &Pending{
		api:        c.api,
		Generation: c.state.Generation,
		From:       c.state.Phase,
		dietary:    c.state.DietaryString(),
		ageGroup:   c.state.AgeGroup,
	}

	switch c.state.Mode {
	case ModeImage:
		if c.state.File == nil {
			return nil, c.notice(precondition(MsgSelectImage))
		}
		p.Op = OpAnalyzeImage
		p.file = *c.state.File
		c.state.StatusLabel = StatusAnalyzingImage

	case ModeTextSearch:
		breed := strings.TrimSpace(searchText)
		if breed == "" {
			return nil, c.notice(precondition(MsgEnterBreed))
		}
		p.Op = OpSearchBreed
		p.breed = breed
		c.state.StatusLabel = StatusSearchingBreed

	default:
		return nil, c.notice(precondition(MsgNoAnalysis))
	}

	if err := c.moveTo(PhaseAnalyzing); err != nil {
		c.state.StatusLabel = ""
		return nil, c.notice(precondition(MsgBusy))
	}
	c.state.Loading = true

	logging.Info("Analysis started",
		zap.String("session_id", c.id),
		zap.String("op", p.Op.String()),
		zap.String("breed", p.breed),
		zap.String("dietary_options", p.dietary),
		zap.String("age_group", p.ageGroup),
	)

	return p, Notice{}
}

// BeginGenerateMore starts a fresh recipe batch for the stored breed result.
func (c *Controller) BeginGenerateMore() (*Pending, Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Loading {
		return nil, c.notice(precondition(MsgBusy))
	}
	if c.state.Result == nil {
		return nil, c.notice(precondition(MsgDetectFirst))
	}

	p := &Pending{
		api:        c.api,
		Op:         OpGenerateMore,
		Generation: c.state.Generation,
		From:       c.state.Phase,
		breed:      c.state.Result.Breed,
		dietary:    c.state.DietaryString(),
		ageGroup:   c.state.AgeGroup,
		count:      c.state.RecipeCount,
	}

	if err := c.moveTo(PhaseGeneratingMore); err != nil {
		return nil, c.notice(precondition(MsgDetectFirst))
	}
	c.state.Loading = true
	c.state.StatusLabel = StatusGeneratingMore

	return p, Notice{}
}

// Complete applies the outcome of a Pending call. Outcomes from an older
// generation are dropped without touching state. Otherwise loading is always
// cleared and the phase either advances or returns to where it started.
func (c *Controller) Complete(out Outcome) Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	if out.Generation != c.state.Generation {
		logging.Debug("Discarding stale outcome",
			zap.String("session_id", c.id),
			zap.String("op", out.Op.String()),
			zap.Uint64("outcome_generation", out.Generation),
			zap.Uint64("current_generation", c.state.Generation),
		)
		return Notice{}
	}

	c.state.Loading = false
	c.state.StatusLabel = ""

	switch out.Op {
	case OpAnalyzeImage:
		if out.Err != nil {
			c.restore(out.From)
			return c.notice(transportFailure("Error analyzing image", out.Err))
		}
		if len(out.Results) == 0 {
			c.restore(PhaseFileSelected)
			return c.notice(emptyResult())
		}
		c.applyResult(out.Results[0])
		c.state.File = nil
		return Notice{}

	case OpSearchBreed:
		if out.Err != nil {
			c.restore(out.From)
			return c.notice(transportFailure("Error searching breed", out.Err))
		}
		if out.Result == nil {
			c.restore(out.From)
			return c.notice(emptyResult())
		}
		c.applyResult(*out.Result)
		return Notice{}

	case OpGenerateMore:
		if out.Err != nil {
			c.restore(PhaseResultReady)
			return c.notice(transportFailure("Error generating recipes", out.Err))
		}
		c.state.Recipes = append([]petpalapi.RecipeCard{}, out.Recipes...)
		c.restore(PhaseResultReady)
		return Notice{}

	default:
		c.restore(out.From)
		return c.notice(precondition(fmt.Sprintf("unknown operation %d", out.Op)))
	}
}

// Analyze runs BeginAnalyze, the call and Complete synchronously
func (c *Controller) Analyze(ctx context.Context, searchText string) Notice {
	p, n := c.BeginAnalyze(searchText)
	if p == nil {
		return n
	}
	return c.Complete(p.Run(ctx))
}

// GenerateMore runs BeginGenerateMore, the call and Complete synchronously
func (c *Controller) GenerateMore(ctx context.Context) Notice {
	p, n := c.BeginGenerateMore()
	if p == nil {
		return n
	}
	return c.Complete(p.Run(ctx))
}

// Bootstrap fetches dietary options, popular breeds and age groups
// concurrently. Either all three are stored or none are; the API status
// label reports which. The returned error is informational only.
func (c *Controller) Bootstrap(ctx context.Context) error {
	c.mu.Lock()
	c.state.Catalog.APIStatus = APIStatusConnecting
	c.mu.Unlock()

	var (
		options []string
		groups  []string
		breeds  map[string]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		options, err = c.api.GetDietaryOptions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		breeds, err = c.api.GetPopularBreeds(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = c.api.GetAgeGroups(gctx)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state.Catalog.APIStatus = APIStatusFailed
		logging.Warn("Catalog fetch failed",
			zap.String("session_id", c.id),
			zap.Error(err),
		)
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	c.state.Catalog = Catalog{
		DietaryOptions: options,
		AgeGroups:      groups,
		PopularBreeds:  breeds,
		APIStatus:      APIStatusConnected,
		Loaded:         true,
	}

	logging.Info("Catalog loaded",
		zap.String("session_id", c.id),
		zap.Int("dietary_options", len(options)),
		zap.Int("age_groups", len(groups)),
		zap.Int("popular_breeds", len(breeds)),
	)

	return nil
}

// applyResult stores a breed result and its recipes and shows the chat panel
func (c *Controller) applyResult(result petpalapi.BreedResult) {
	stored := result
	stored.Recipes = append([]petpalapi.RecipeCard{}, result.Recipes...)

	c.state.Result = &stored
	c.state.Recipes = append([]petpalapi.RecipeCard{}, result.Recipes...)
	c.state.ResultSeq++
	c.state.ChatVisible = true
	c.restore(PhaseResultReady)

	logging.Info("Breed result applied",
		zap.String("session_id", c.id),
		zap.String("breed", stored.Breed),
		zap.String("confidence", petpalapi.FormatConfidence(stored.Confidence)),
		zap.Int("recipes", len(stored.Recipes)),
	)
}

// moveTo changes phase if the transition table allows it. Caller holds mu.
func (c *Controller) moveTo(to Phase) error {
	from := c.state.Phase
	if !CanTransition(c.state.Mode, from, to) {
		logging.Warn("Illegal transition rejected",
			zap.String("session_id", c.id),
			zap.String("mode", c.state.Mode.String()),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		return fmt.Errorf("illegal transition %s", Transition{Mode: c.state.Mode, From: from, To: to})
	}

	c.state.Phase = to
	logging.LogTransition(c.id, c.state.Mode.String(), from.String(), to.String())
	return nil
}

// restore moves back to phase after a call finishes. A missing table edge
// is logged and the phase is forced so the session never stays busy.
func (c *Controller) restore(to Phase) {
	if err := c.moveTo(to); err != nil {
		logging.Warn("Phase restored outside transition table",
			zap.String("session_id", c.id),
			zap.Error(err),
		)
		c.state.Phase = to
	}
}

// notice logs non-empty notices and returns n unchanged. Caller holds mu.
func (c *Controller) notice(n Notice) Notice {
	if n.Kind != NoticeNone {
		logging.LogNotice(c.id, n.Kind.String(), n.Message)
	}
	return n
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
