package controllers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"marketing-analytics-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type reportsPage struct {
	Success bool                   `json:"success"`
	Reports []models.UploadHistory `json:"reports"`
	Pagination struct {
		CurrentPage int   `json:"current_page"`
		PerPage     int   `json:"per_page"`
		TotalCount  int64 `json:"total_count"`
		TotalPages  int64 `json:"total_pages"`
		HasNext     bool  `json:"has_next"`
		HasPrev     bool  `json:"has_prev"`
	} `json:"pagination"`
	Summary struct {
		TotalUploads int64 `json:"total_uploads"`
		TotalRows    int64 `json:"total_rows"`
		Completed    int64 `json:"completed"`
		Failed       int64 `json:"failed"`
	} `json:"summary"`
}

func seedHistory(t *testing.T, db *gorm.DB, userID int) {
	t.Helper()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	entries := []models.UploadHistory{
		{UserID: userID, FileName: "fb_january.csv", Platform: "facebook", RowCount: 10, Status: models.UploadStatusCompleted, CreatedAt: base},
		{UserID: userID, FileName: "fb_february.csv", Platform: "facebook", RowCount: 20, Status: models.UploadStatusCompleted, CreatedAt: base.AddDate(0, 0, 1)},
		{UserID: userID, FileName: "tt_spring.csv", Platform: "tiktok", RowCount: 5, Status: models.UploadStatusCompleted, CreatedAt: base.AddDate(0, 0, 2)},
		{UserID: userID, FileName: "gg_search.csv", Platform: "google", RowCount: 0, Status: models.UploadStatusFailed, CreatedAt: base.AddDate(0, 0, 3)},
		{UserID: userID, FileName: "tt_summer.csv", Platform: "tiktok", RowCount: 15, Status: models.UploadStatusCompleted, CreatedAt: base.AddDate(0, 0, 4)},
	}
	for i := range entries {
		require.NoError(t, db.Create(&entries[i]).Error)
	}
}

func TestGetReports_Pagination(t *testing.T) {
	router, db := newTestRouter(t, testConfig(t))
	token, userID := registerUser(t, router, "owner@shop.test")
	seedHistory(t, db, userID)

	w := doJSON(t, router, http.MethodGet, "/api/v1/reports?page=1&limit=2", token, "")
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var page reportsPage
	decodeBody(t, w, &page)
	require.Len(t, page.Reports, 2)
	// Newest first.
	assert.Equal(t, "tt_summer.csv", page.Reports[0].FileName)
	assert.Equal(t, "gg_search.csv", page.Reports[1].FileName)
	assert.Equal(t, 1, page.Pagination.CurrentPage)
	assert.EqualValues(t, 5, page.Pagination.TotalCount)
	assert.EqualValues(t, 3, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext)
	assert.False(t, page.Pagination.HasPrev)

	w = doJSON(t, router, http.MethodGet, "/api/v1/reports?page=3&limit=2", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &page)
	require.Len(t, page.Reports, 1)
	assert.Equal(t, "fb_january.csv", page.Reports[0].FileName)
	assert.False(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrev)
}

func TestGetReports_PlatformFilter(t *testing.T) {
	router, db := newTestRouter(t, testConfig(t))
	token, userID := registerUser(t, router, "owner@shop.test")
	seedHistory(t, db, userID)

	w := doJSON(t, router, http.MethodGet, "/api/v1/reports?platform=tiktok", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var page reportsPage
	decodeBody(t, w, &page)
	require.Len(t, page.Reports, 2)
	for _, r := range page.Reports {
		assert.Equal(t, "tiktok", r.Platform)
	}
	assert.EqualValues(t, 2, page.Summary.TotalUploads)
	assert.EqualValues(t, 20, page.Summary.TotalRows)
}

func TestGetReports_Search(t *testing.T) {
	router, db := newTestRouter(t, testConfig(t))
	token, userID := registerUser(t, router, "owner@shop.test")
	seedHistory(t, db, userID)

	w := doJSON(t, router, http.MethodGet, "/api/v1/reports?search=february", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var page reportsPage
	decodeBody(t, w, &page)
	require.Len(t, page.Reports, 1)
	assert.Equal(t, "fb_february.csv", page.Reports[0].FileName)
}

func TestGetReports_DateRange(t *testing.T) {
	router, db := newTestRouter(t, testConfig(t))
	token, userID := registerUser(t, router, "owner@shop.test")
	seedHistory(t, db, userID)

	// end_date is inclusive.
	w := doJSON(t, router, http.MethodGet, "/api/v1/reports?start_date=2026-03-11&end_date=2026-03-12", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var page reportsPage
	decodeBody(t, w, &page)
	require.Len(t, page.Reports, 2)
	assert.Equal(t, "tt_spring.csv", page.Reports[0].FileName)
	assert.Equal(t, "fb_february.csv", page.Reports[1].FileName)
}

func TestGetReports_MalformedDate(t *testing.T) {
	router, _ := newTestRouter(t, testConfig(t))
	token, _ := registerUser(t, router, "owner@shop.test")

	w := doJSON(t, router, http.MethodGet, "/api/v1/reports?start_date=03%2F11%2F2026", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "start_date")
}

func TestGetReports_Summary(t *testing.T) {
	router, db := newTestRouter(t, testConfig(t))
	token, userID := registerUser(t, router, "owner@shop.test")
	seedHistory(t, db, userID)

	w := doJSON(t, router, http.MethodGet, "/api/v1/reports", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var page reportsPage
	decodeBody(t, w, &page)
	assert.EqualValues(t, 5, page.Summary.TotalUploads)
	assert.EqualValues(t, 50, page.Summary.TotalRows)
	assert.EqualValues(t, 4, page.Summary.Completed)
	assert.EqualValues(t, 1, page.Summary.Failed)
}

func TestGetReports_ScopedToOwner(t *testing.T) {
	router, db := newTestRouter(t, testConfig(t))
	token, _ := registerUser(t, router, "owner@shop.test")
	_, otherID := registerUser(t, router, "other@shop.test")
	seedHistory(t, db, otherID)

	w := doJSON(t, router, http.MethodGet, "/api/v1/reports", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var page reportsPage
	decodeBody(t, w, &page)
	assert.Empty(t, page.Reports)
	assert.EqualValues(t, 0, page.Summary.TotalUploads)
}

func TestDeleteReport(t *testing.T) {
	router, db := newTestRouter(t, testConfig(t))
	token, userID := registerUser(t, router, "owner@shop.test")

	entry := models.UploadHistory{UserID: userID, FileName: "fb.csv", Platform: "facebook", RowCount: 3, Status: models.UploadStatusCompleted}
	require.NoError(t, db.Create(&entry).Error)

	w := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/reports/%d", entry.ID), token, "")
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var count int64
	db.Model(&models.UploadHistory{}).Count(&count)
	assert.Zero(t, count)
}

func TestDeleteReport_NotFound(t *testing.T) {
	router, _ := newTestRouter(t, testConfig(t))
	token, _ := registerUser(t, router, "owner@shop.test")

	w := doJSON(t, router, http.MethodDelete, "/api/v1/reports/424242", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteReport_InvalidID(t *testing.T) {
	router, _ := newTestRouter(t, testConfig(t))
	token, _ := registerUser(t, router, "owner@shop.test")

	w := doJSON(t, router, http.MethodDelete, "/api/v1/reports/not-a-number", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteReport_ForeignOwner(t *testing.T) {
	router, db := newTestRouter(t, testConfig(t))
	token, _ := registerUser(t, router, "owner@shop.test")
	_, otherID := registerUser(t, router, "other@shop.test")

	entry := models.UploadHistory{UserID: otherID, FileName: "fb.csv", Platform: "facebook", RowCount: 3, Status: models.UploadStatusCompleted}
	require.NoError(t, db.Create(&entry).Error)

	w := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/reports/%d", entry.ID), token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Access denied")

	var count int64
	db.Model(&models.UploadHistory{}).Count(&count)
	assert.EqualValues(t, 1, count)
}
