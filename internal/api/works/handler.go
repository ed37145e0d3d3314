package works

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"connections-app/database"
	"connections-app/internal/domain/reviews"
	"connections-app/internal/domain/works"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type workRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	Year        int        `json:"year"`
	Genres      []string   `json:"genres"`
	Language    string     `json:"language"`
	CoverImages []string   `json:"cover_images"`
	Author      string     `json:"author"`
	Director    string     `json:"director"`
	Actors      []string   `json:"actors"`
	ReleaseDate *time.Time `json:"release_date"`
}

func (r *workRequest) validate() string {
	if r.Title == "" || r.Description == "" || r.Type == "" || r.Year == 0 || len(r.Genres) == 0 {
		return "Missing required fields"
	}
	if !works.IsValidType(r.Type) {
		return "Type must be book or screen"
	}
	for _, g := range r.Genres {
		if !works.IsValidGenre(g) {
			return "Invalid genre: " + g
		}
	}
	if len(r.CoverImages) == 0 {
		return "At least one cover image is required"
	}
	if r.Type == works.TypeBook && r.Author == "" {
		return "Book type requires an author"
	}
	if r.Type == works.TypeScreen && (r.Director == "" || r.ReleaseDate == nil) {
		return "Screen type requires a director and release date"
	}
	return ""
}

// POST /works  (admin only)
func CreateWork(c *gin.Context) {
	var req workRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	work := works.Work{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Year:        req.Year,
		Genres:      datatypes.NewJSONSlice(req.Genres),
		Language:    req.Language,
		CoverImages: datatypes.NewJSONSlice(req.CoverImages),
		Author:      req.Author,
		Director:    req.Director,
		Actors:      datatypes.NewJSONSlice(req.Actors),
		ReleaseDate: req.ReleaseDate,
	}
	if err := database.DB.Create(&work).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create work failed"})
		return
	}

	c.JSON(http.StatusCreated, work)
}

// GET /works/:id
// Work record plus resolved adjacency lists and the five newest root reviews.
func GetWorkDetail(c *gin.Context) {
	var work works.Work
	if err := database.DB.First(&work, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Work does not exist"})
		return
	}

	adjacency, err := buildAdjacency(database.DB, work.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load connections"})
		return
	}

	var topLevelReviews []reviews.Review
	err = database.DB.Where("work_id = ? AND parent_id IS NULL", work.ID).
		Order("created_at DESC").
		Limit(5).
		Find(&topLevelReviews).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"work":                       work,
		"primary_upstream_works":     adjacency.PrimaryUpstream,
		"primary_downstream_works":   adjacency.PrimaryDownstream,
		"secondary_upstream_works":   adjacency.SecondaryUpstream,
		"secondary_downstream_works": adjacency.SecondaryDownstream,
		"top_level_reviews":          topLevelReviews,
	})
}

// PUT /works/:id  (admin only)
func UpdateWork(c *gin.Context) {
	var work works.Work
	if err := database.DB.First(&work, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Work does not exist"})
		return
	}

	var req workRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != "" {
		work.Title = req.Title
	}
	if req.Description != "" {
		work.Description = req.Description
	}
	if req.Type != "" && works.IsValidType(req.Type) {
		work.Type = req.Type
	}
	if req.Year != 0 {
		work.Year = req.Year
	}
	if len(req.Genres) > 0 {
		work.Genres = datatypes.NewJSONSlice(req.Genres)
	}
	if req.Language != "" {
		work.Language = req.Language
	}
	if len(req.CoverImages) > 0 {
		work.CoverImages = datatypes.NewJSONSlice(req.CoverImages)
	}
	if req.Author != "" {
		work.Author = req.Author
	}
	if req.Director != "" {
		work.Director = req.Director
	}
	if len(req.Actors) > 0 {
		work.Actors = datatypes.NewJSONSlice(req.Actors)
	}
	if req.ReleaseDate != nil {
		work.ReleaseDate = req.ReleaseDate
	}

	if err := database.DB.Save(&work).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update work failed"})
		return
	}

	c.JSON(http.StatusOK, work)
}

// GET /works
func ListWorks(c *gin.Context) {
	var list []works.Work
	err := database.DB.Order("created_at DESC").Find(&list).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Get works list failed"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /works/search?title=&type=&yearMin=&yearMax=&genre=&page=&limit=
func SearchWorks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	q := database.DB.Model(&works.Work{})
	if title := c.Query("title"); title != "" {
		q = q.Where("title LIKE ?", "%"+title+"%")
	}
	if t := c.Query("type"); works.IsValidType(t) {
		q = q.Where("type = ?", t)
	}
	if yearMin := c.Query("yearMin"); yearMin != "" {
		if y, err := strconv.Atoi(yearMin); err == nil {
			q = q.Where("year >= ?", y)
		}
	}
	if yearMax := c.Query("yearMax"); yearMax != "" {
		if y, err := strconv.Atoi(yearMax); err == nil {
			q = q.Where("year <= ?", y)
		}
	}
	if genre := c.Query("genre"); genre != "" {
		// genres is a JSON array column; match on the serialized form
		q = q.Where("CAST(genres AS TEXT) LIKE ?", `%"`+genre+`"%`)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search works failed"})
		return
	}

	var list []works.Work
	err := q.Order("average_rating DESC, rating_count DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search works failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"works": list,
		"pagination": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// DELETE /works/:id  (admin only)
func DeleteWork(c *gin.Context) {
	if err := DeleteWorkCascade(database.DB, c.Param("id")); err != nil {
		if errors.Is(err, ErrWorkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Work does not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Delete work failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "The work and all related data have been deleted"})
}

func statusForLinkError(err error) int {
	switch {
	case errors.Is(err, ErrWorkNotFound), errors.Is(err, ErrLinkNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSelfLink), errors.Is(err, ErrInvalidPrimaryType), errors.Is(err, ErrYearOrder), errors.Is(err, ErrLinkExists):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// POST /works/:id/primary-connections  (admin only)
func AddPrimaryConnection(c *gin.Context) {
	var req struct {
		TargetWorkID string `json:"target_work_id" binding:"required"`
		Type         string `json:"type" binding:"required"`
		Direction    string `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := AddPrimaryLink(database.DB, c.Param("id"), req.TargetWorkID, req.Type, req.Direction); err != nil {
		c.JSON(statusForLinkError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Primary connection added successfully"})
}

// PUT /works/:id/primary-connections/:connectionId  (admin only)
func UpdatePrimaryConnection(c *gin.Context) {
	var req struct {
		Type string `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	linkID, err := strconv.ParseUint(c.Param("connectionId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid connection id"})
		return
	}

	if err := UpdatePrimaryLink(database.DB, c.Param("id"), uint(linkID), req.Type); err != nil {
		c.JSON(statusForLinkError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Primary connection updated successfully"})
}

// DELETE /works/:id/primary-connections/:connectionId  (admin only)
func DeletePrimaryConnection(c *gin.Context) {
	linkID, err := strconv.ParseUint(c.Param("connectionId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid connection id"})
		return
	}

	if err := DeletePrimaryLink(database.DB, c.Param("id"), uint(linkID)); err != nil {
		c.JSON(statusForLinkError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Primary connection deleted successfully"})
}
