package scholarship

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"scholarhub/internal/taxonomy"
	"scholarhub/pkg/models"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)             // GET /scholarships?state=...&category=...&level=...&type=...&q=...
	rg.GET("/:slug", h.getBySlug)  // GET /scholarships/:slug
}

func (h *Handler) RegisterMetaRoutes(rg *gin.RouterGroup) {
	rg.GET("/states", h.metaStates)
	rg.GET("/categories", h.metaCategories)
	rg.GET("/levels", h.metaLevels)
	rg.GET("/types", h.metaTypes)
}

// list dispatches on the first filter present. Filters don't combine:
// the hub pages each link with exactly one of them, and the eligibility
// form covers the multi-predicate case.
func (h *Handler) list(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		items []models.Scholarship
		err   error
	)

	switch {
	case c.Query("q") != "":
		items, err = h.Repo.Search(ctx, c.Query("q"))
	case c.Query("featured") == "1":
		items, err = h.Repo.Featured(ctx, parseInt(c.Query("limit"), 10))
	case c.Query("popular") == "1":
		items, err = h.Repo.Popular(ctx, parseInt(c.Query("limit"), 10))
	case c.Query("state") != "":
		items, err = h.Repo.ByState(ctx, c.Query("state"))
	case c.Query("category") != "":
		items, err = h.Repo.ByCategory(ctx, c.Query("category"))
	case c.Query("level") != "":
		items, err = h.Repo.ByLevel(ctx, c.Query("level"))
	case c.Query("type") != "":
		items, err = h.Repo.ByType(ctx, c.Query("type"))
	case c.Query("income_max") != "":
		min := parseInt(c.Query("income_min"), 0)
		max := parseInt(c.Query("income_max"), 0)
		items, err = h.Repo.ByIncomeRange(ctx, min, max)
	default:
		items, err = h.Repo.Active(ctx)
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(items),
		"items": items,
	})
}

func (h *Handler) getBySlug(c *gin.Context) {
	slug := c.Param("slug")
	s, err := h.Repo.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if s == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scholarship": s,
		"steps":       models.SplitSteps(s.HowToApply),
	})
}

// CheckEligibility handles the eligibility form: POST /eligibility/check
// with {state, category, level, income, marks}, all optional.
func (h *Handler) CheckEligibility(c *gin.Context) {
	var q EligibilityQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	items, err := h.Repo.Eligible(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "eligibility check failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scholarships": items,
		"count":        len(items),
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	st, err := h.Repo.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
		return
	}
	c.JSON(http.StatusOK, st)
}

// ValueItem is one hub-page entry: the route segment plus the display
// name the page shows for it.
type ValueItem struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// slugged dedupes raw values that collapse to the same slug; the first
// raw value wins for display, so hub pages never produce duplicate
// routes.
func slugged(values []string) []ValueItem {
	seen := make(map[string]struct{}, len(values))
	out := make([]ValueItem, 0, len(values))
	for _, v := range values {
		slug := taxonomy.Slugify(v)
		if slug == "" {
			continue
		}
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		out = append(out, ValueItem{Slug: slug, Name: v})
	}
	return out
}

func (h *Handler) metaStates(c *gin.Context) {
	vals, err := h.Repo.DistinctStates(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "meta failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": slugged(vals)})
}

func (h *Handler) metaCategories(c *gin.Context) {
	vals, err := h.Repo.DistinctCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "meta failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": slugged(vals)})
}

// metaLevels serves the canonical buckets, not raw level strings — the
// level hub filters through the bucket table.
func (h *Handler) metaLevels(c *gin.Context) {
	buckets := taxonomy.Buckets()
	items := make([]ValueItem, 0, len(buckets))
	for _, b := range buckets {
		items = append(items, ValueItem{Slug: b.Key, Name: b.Display})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) metaTypes(c *gin.Context) {
	vals, err := h.Repo.DistinctProviderTypes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "meta failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": slugged(vals)})
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
