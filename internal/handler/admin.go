package handler

// admin.go serves the squad and batch CRUD endpoints.  These are plain
// metadata lists with no booking rules attached.

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/seatflow/seatflow/internal/model"
	"github.com/seatflow/seatflow/internal/repository"
)

// AdminHandler bundles the squad and batch repositories.
type AdminHandler struct {
	Squads  *repository.SquadRepo
	Batches *repository.BatchRepo
}

func NewAdminHandler(s *repository.SquadRepo, b *repository.BatchRepo) *AdminHandler {
	return &AdminHandler{Squads: s, Batches: b}
}

type createSquadReq struct {
	Name string `json:"name"`
}

type createBatchReq struct {
	Name string `json:"name"`
	Days []int  `json:"days"`
	Week *int   `json:"week"`
}

// ListSquads handles GET /v1/squads.
func (h *AdminHandler) ListSquads(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	squads, err := h.Squads.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if squads == nil {
		squads = []model.Squad{}
	}
	return c.JSON(http.StatusOK, squads)
}

// CreateSquad handles POST /v1/squads.
func (h *AdminHandler) CreateSquad(c echo.Context) error {
	var req createSquadReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	s := model.Squad{Name: req.Name}
	if err := h.Squads.Create(ctx, &s); err != nil {
		if errors.Is(err, repository.ErrNameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "squad already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create squad failed"})
	}
	return c.JSON(http.StatusCreated, s)
}

// ListBatches handles GET /v1/batches.
func (h *AdminHandler) ListBatches(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	batches, err := h.Batches.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if batches == nil {
		batches = []model.Batch{}
	}
	return c.JSON(http.StatusOK, batches)
}

// CreateBatch handles POST /v1/batches.  Days and week are required so
// the frontend can render the schedule without guessing.
func (h *AdminHandler) CreateBatch(c echo.Context) error {
	var req createBatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || len(req.Days) == 0 || req.Week == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, days and week are required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	b := model.Batch{Name: req.Name, Days: req.Days, Week: *req.Week}
	if err := h.Batches.Create(ctx, &b); err != nil {
		if errors.Is(err, repository.ErrNameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "batch already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create batch failed"})
	}
	return c.JSON(http.StatusCreated, b)
}
