package handlers

import (
	"net/http"

	"github.com/adcapture/shoot-scheduler-go/pkg/config"
	"github.com/adcapture/shoot-scheduler-go/pkg/database"
	"github.com/adcapture/shoot-scheduler-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// ValidateStore sanity-checks the pending-task snapshot and the area table
// without planning anything: inverted live windows, missing or unknown time
// blocks, and locations that resolve to no area.
func (h *Handler) ValidateStore(c *gin.Context) {
	areas, err := config.LoadAreaTable(h.AreaMapPath)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}

	var records []database.TaskRecord
	if err := h.DB.Where("status = ?", database.TaskStatusPending).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch tasks"})
		return
	}

	var problems []gin.H
	for _, r := range records {
		if r.LiveEnd.Before(r.LiveStart) {
			problems = append(problems, gin.H{"task_id": r.ID, "problem": "live window end precedes start"})
		}
		if !models.TimeBlock(r.TimeBlock).Valid() {
			problems = append(problems, gin.H{"task_id": r.ID, "problem": "missing or unknown time block: " + r.TimeBlock})
		}
		if areas.Resolve(r.Location) == models.AreaUnclassified {
			problems = append(problems, gin.H{"task_id": r.ID, "problem": "unmapped location: " + r.Location})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": len(problems) == 0,
		"stats": gin.H{
			"task_count": len(records),
			"area_count": len(areas.Areas()),
		},
		"problems": problems,
	})
}
