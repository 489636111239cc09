package dashboard

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/kcalbot/internal/dialogue"
	"github.com/zulandar/kcalbot/internal/store"
)

// registerRoutes sets up all dashboard routes on the Gin router.
func registerRoutes(router *gin.Engine, st *store.Store) {
	router.GET("/healthz", handleHealth())
	router.GET("/api/users/:id/days/:day", handleDay(st))
	router.GET("/api/users/:id/week", handleWeek(st))
}

func handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// handleDay returns the entries and total for one (user, day).
func handleDay(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("id")
		day, err := dialogue.ParseDay(c.Param("day"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "day must be YYYY-MM-DD"})
			return
		}

		entries, err := st.ListFor(userID, day)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		total, err := st.TotalFor(userID, day)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"day":     day,
			"entries": entries,
			"total":   total,
		})
	}
}

// handleWeek returns per-day totals over the trailing 7 calendar days.
func handleWeek(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("id")
		days := store.LastNDays(7, time.Now())

		type dayTotal struct {
			Day   string  `json:"day"`
			Total float64 `json:"total"`
		}
		totals := make([]dayTotal, 0, len(days))
		var sum float64
		for _, day := range days {
			t, err := st.TotalFor(userID, day)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			totals = append(totals, dayTotal{Day: day, Total: t})
			sum += t
		}

		c.JSON(http.StatusOK, gin.H{
			"days":  totals,
			"total": sum,
		})
	}
}
