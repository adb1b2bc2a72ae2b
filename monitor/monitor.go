package monitor

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var startedAt = time.Now()

// RegisterMonitorPage mounts a small HTML status page with uptime, database
// connectivity and ingestion totals. Intended for humans; machines scrape
// /metrics instead.
func RegisterMonitorPage(router *gin.Engine, db *gorm.DB) {
	router.GET("/monitor", func(c *gin.Context) {
		dbState := "connected"
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			dbState = "unreachable"
		}

		var uploads, rows, failed int64
		db.Table("upload_history").Count(&uploads)
		db.Table("upload_history").Select("COALESCE(SUM(row_count), 0)").Scan(&rows)
		db.Table("upload_history").Where("status = ?", "failed").Count(&failed)

		html := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <title>Marketing Analytics Status</title>
  <style>
    body { background: #0f0f0f; color: #e0e0e0; font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; padding: 2rem; }
    h1 { color: #a5b4fc; font-size: 1.6rem; margin-bottom: 1.5rem; }
    .card { background: rgba(255,255,255,0.05); border: 1px solid rgba(255,255,255,0.1); border-radius: 12px; padding: 1.2rem 1.5rem; margin-bottom: 1rem; max-width: 480px; }
    .label { color: #888; font-size: 0.85rem; }
    .value { font-size: 1.3rem; font-weight: 600; }
    .ok { color: #4ade80; }
    .bad { color: #f87171; }
  </style>
</head>
<body>
  <h1>Marketing Analytics API</h1>
  <div class="card"><div class="label">Database</div><div class="value %s">%s</div></div>
  <div class="card"><div class="label">Uptime</div><div class="value">%s</div></div>
  <div class="card"><div class="label">Uploads recorded</div><div class="value">%d (%d failed)</div></div>
  <div class="card"><div class="label">Rows ingested</div><div class="value">%d</div></div>
</body>
</html>`,
			statusClass(dbState), dbState,
			time.Since(startedAt).Round(time.Second),
			uploads, failed,
			rows,
		)

		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
	})
}

func statusClass(dbState string) string {
	if dbState == "connected" {
		return "ok"
	}
	return "bad"
}
