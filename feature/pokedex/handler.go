package pokedex

import (
	"context"
	"errors"
	"strconv"

	"pmteambuilder/core/logger"
	"pmteambuilder/core/utils"
	"pmteambuilder/feature/pokedex/models"
	"pmteambuilder/feature/pokedex/query"
	pokesync "pmteambuilder/feature/pokedex/sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Reader answers the team-builder reads. *query.Service implements it.
type Reader interface {
	ListPokemon(ctx context.Context, f query.PokemonFilter) (*models.PokemonPage, error)
	ListMoves(ctx context.Context, f query.ListFilter) ([]models.Move, error)
	ListAbilities(ctx context.Context, f query.ListFilter) ([]models.Ability, error)
	ListItems(ctx context.Context, f query.ListFilter) ([]models.Item, error)
	LearnableMoves(ctx context.Context, speciesID, versionGroupID int) ([]models.LearnableMove, error)
	LearnableMovesByGeneration(ctx context.Context, speciesID, generationID int) ([]models.LearnableMove, error)
	FormAbilities(ctx context.Context, formID int) ([]models.FormAbilityView, error)
	SpeciesAbilities(ctx context.Context, speciesID int) ([]models.FormAbilityView, error)
	GenerationsWithVersionGroups(ctx context.Context) ([]models.GenerationView, error)
	Invalidate(ctx context.Context) (int, error)
	Prewarm(ctx context.Context) error
}

// Syncer starts and reports reference-data syncs. *sync.Orchestrator implements it.
type Syncer interface {
	TriggerAsync(ctx context.Context, force bool) error
	Running() bool
	LastReport() *pokesync.Report
}

// Handler handles HTTP requests for the pokedex.
type Handler struct {
	reader Reader
	syncer Syncer
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler. syncer may be nil, which disables the admin sync routes.
func NewHandler(reader Reader, syncer Syncer, logger *zap.Logger) *Handler {
	return &Handler{reader: reader, syncer: syncer, logger: logger}
}

// RegisterRoutes registers the pokedex routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/pokemon", h.HandleListPokemon)
	app.Get("/moves", h.HandleListMoves)
	app.Get("/abilities", h.HandleListAbilities)
	app.Get("/items", h.HandleListItems)
	app.Get("/generations", h.HandleGenerations)
	app.Get("/species/:id/moves", h.HandleLearnableMoves)
	app.Get("/species/:id/abilities", h.HandleSpeciesAbilities)
	app.Get("/forms/:id/abilities", h.HandleFormAbilities)

	admin := app.Group("/admin")
	admin.Post("/cache/refresh", h.HandleCacheRefresh)
	if h.syncer != nil {
		admin.Post("/sync", h.HandleTriggerSync)
		admin.Get("/sync", h.HandleSyncStatus)
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// fail maps a read error to a response. Missing entities are a 404; any other
// failure is logged and answered with the empty result so clients keep working.
func (h *Handler) fail(c *fiber.Ctx, err error, empty any) error {
	if errors.Is(err, query.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	logger.WithRayID(h.logger, c).Error("Pokedex query failed", zap.String("path", c.Path()), zap.Error(err))
	return c.JSON(empty)
}

// optionalInt parses an optional positive integer query parameter.
func optionalInt(c *fiber.Ctx, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return nil, errors.New("invalid " + name)
	}
	return &v, nil
}

func listFilter(c *fiber.Ctx) (query.ListFilter, error) {
	gen, err := optionalInt(c, "generation")
	if err != nil {
		return query.ListFilter{}, err
	}
	return query.ListFilter{
		Limit:        c.QueryInt("limit", 0),
		Offset:       c.QueryInt("offset", 0),
		GenerationID: gen,
		Categories:   utils.SplitList(c.Query("categories")),
	}, nil
}

// HandleListPokemon lists Pokémon forms.
// @Summary List Pokémon
// @Description Lists forms ordered by id with localized names, types, base stats and abilities.
// @Tags pokedex
// @Produce json
// @Param limit query int false "Page size (default 50, max 2000)"
// @Param offset query int false "Page offset"
// @Param generation query int false "Only species obtainable in this generation"
// @Param search query string false "Substring of the English or Chinese name"
// @Param types query string false "Comma separated type names, at most two"
// @Success 200 {object} models.PokemonPage
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /pokemon [get]
func (h *Handler) HandleListPokemon(c *fiber.Ctx) error {
	gen, err := optionalInt(c, "generation")
	if err != nil {
		return badRequest(c, err.Error())
	}
	page, err := h.reader.ListPokemon(c.Context(), query.PokemonFilter{
		Limit:        c.QueryInt("limit", 0),
		Offset:       c.QueryInt("offset", 0),
		GenerationID: gen,
		Search:       c.Query("search"),
		Types:        utils.SplitList(c.Query("types")),
	})
	if err != nil {
		return h.fail(c, err, &models.PokemonPage{Results: []models.PokemonSummary{}})
	}
	return c.JSON(page)
}

// HandleListMoves lists moves.
// @Summary List Moves
// @Tags pokedex
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Param generation query int false "Introduced in this generation or earlier"
// @Param categories query string false "Comma separated damage classes"
// @Success 200 {array} models.Move
// @Router /moves [get]
func (h *Handler) HandleListMoves(c *fiber.Ctx) error {
	f, err := listFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	moves, err := h.reader.ListMoves(c.Context(), f)
	if err != nil {
		return h.fail(c, err, []models.Move{})
	}
	return c.JSON(moves)
}

// HandleListAbilities lists abilities.
// @Summary List Abilities
// @Tags pokedex
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Param generation query int false "Introduced in this generation or earlier"
// @Success 200 {array} models.Ability
// @Router /abilities [get]
func (h *Handler) HandleListAbilities(c *fiber.Ctx) error {
	f, err := listFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	abilities, err := h.reader.ListAbilities(c.Context(), f)
	if err != nil {
		return h.fail(c, err, []models.Ability{})
	}
	return c.JSON(abilities)
}

// HandleListItems lists items.
// @Summary List Items
// @Description Without categories only battle-relevant categories are listed.
// @Tags pokedex
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Param generation query int false "Introduced in this generation or earlier"
// @Param categories query string false "Comma separated item categories"
// @Success 200 {array} models.Item
// @Router /items [get]
func (h *Handler) HandleListItems(c *fiber.Ctx) error {
	f, err := listFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	items, err := h.reader.ListItems(c.Context(), f)
	if err != nil {
		return h.fail(c, err, []models.Item{})
	}
	return c.JSON(items)
}

// HandleGenerations lists generations with their version groups.
// @Summary List Generations
// @Tags pokedex
// @Produce json
// @Success 200 {array} models.GenerationView
// @Router /generations [get]
func (h *Handler) HandleGenerations(c *fiber.Ctx) error {
	gens, err := h.reader.GenerationsWithVersionGroups(c.Context())
	if err != nil {
		return h.fail(c, err, []models.GenerationView{})
	}
	return c.JSON(gens)
}

// HandleLearnableMoves lists the moves a species can learn.
// @Summary Learnable Moves
// @Description Exactly one of version_group or generation is required.
// @Tags pokedex
// @Produce json
// @Param id path int true "Species ID"
// @Param version_group query int false "Version group ID"
// @Param generation query int false "Generation ID"
// @Success 200 {array} models.LearnableMove
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /species/{id}/moves [get]
func (h *Handler) HandleLearnableMoves(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "invalid species id")
	}
	vg, err := optionalInt(c, "version_group")
	if err != nil {
		return badRequest(c, err.Error())
	}
	gen, err := optionalInt(c, "generation")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var moves []models.LearnableMove
	switch {
	case vg != nil && gen != nil:
		return badRequest(c, "version_group and generation are mutually exclusive")
	case vg != nil:
		moves, err = h.reader.LearnableMoves(c.Context(), id, *vg)
	case gen != nil:
		moves, err = h.reader.LearnableMovesByGeneration(c.Context(), id, *gen)
	default:
		return badRequest(c, "version_group or generation is required")
	}
	if err != nil {
		return h.fail(c, err, []models.LearnableMove{})
	}
	return c.JSON(moves)
}

// HandleFormAbilities lists the abilities of a form.
// @Summary Form Abilities
// @Tags pokedex
// @Produce json
// @Param id path int true "Form ID"
// @Success 200 {array} models.FormAbilityView
// @Failure 404 {object} map[string]string "Not Found"
// @Router /forms/{id}/abilities [get]
func (h *Handler) HandleFormAbilities(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "invalid form id")
	}
	abilities, err := h.reader.FormAbilities(c.Context(), id)
	if err != nil {
		return h.fail(c, err, []models.FormAbilityView{})
	}
	return c.JSON(abilities)
}

// HandleSpeciesAbilities lists the abilities of a species' default forms.
// @Summary Species Abilities
// @Tags pokedex
// @Produce json
// @Param id path int true "Species ID"
// @Success 200 {array} models.FormAbilityView
// @Failure 404 {object} map[string]string "Not Found"
// @Router /species/{id}/abilities [get]
func (h *Handler) HandleSpeciesAbilities(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "invalid species id")
	}
	abilities, err := h.reader.SpeciesAbilities(c.Context(), id)
	if err != nil {
		return h.fail(c, err, []models.FormAbilityView{})
	}
	return c.JSON(abilities)
}

// HandleTriggerSync starts a background sync.
// @Summary Trigger Sync
// @Description Starts a reference-data sync in the background. force=true ignores the checkpoint.
// @Tags admin
// @Produce json
// @Param force query boolean false "Ignore done markers"
// @Success 202 {object} map[string]interface{} "Accepted"
// @Failure 409 {object} map[string]string "Sync already running"
// @Router /admin/sync [post]
func (h *Handler) HandleTriggerSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	force := utils.ToBool(c.Query("force"))

	if err := h.syncer.TriggerAsync(c.UserContext(), force); err != nil {
		if errors.Is(err, pokesync.ErrAlreadyRunning) {
			l.Warn("Sync requested while running")
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Failed to trigger sync", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Sync triggered", zap.Bool("force", force))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "started", "force": force})
}

// HandleSyncStatus reports whether a sync is running and the last report.
// @Summary Sync Status
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{} "Status"
// @Router /admin/sync [get]
func (h *Handler) HandleSyncStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"running": h.syncer.Running(),
		"last":    h.syncer.LastReport(),
	})
}

// HandleCacheRefresh drops every cached read and pre-warms the common lists.
// @Summary Refresh Query Cache
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{} "Refresh Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /admin/cache/refresh [post]
func (h *Handler) HandleCacheRefresh(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	removed, err := h.reader.Invalidate(c.Context())
	if err != nil {
		l.Error("Cache invalidation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	resp := fiber.Map{"status": "refreshed", "removed": removed}
	if err := h.reader.Prewarm(c.Context()); err != nil {
		l.Warn("Cache prewarm incomplete", zap.Error(err))
		resp["status"] = "partial"
		resp["prewarm_error"] = err.Error()
	}
	l.Info("Query cache refreshed", zap.Int("removed", removed))
	return c.JSON(resp)
}
