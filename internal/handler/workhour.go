package handler

import (
	"net/http"

	"club-hours/internal/middleware"
	"club-hours/internal/model"
	"club-hours/internal/service"
	"club-hours/internal/workhours"

	"github.com/gin-gonic/gin"
)

type WorkHourHandler struct{ svc *service.WorkHourService }

func NewWorkHourHandler(svc *service.WorkHourService) *WorkHourHandler {
	return &WorkHourHandler{svc: svc}
}

func (h *WorkHourHandler) Get(c *gin.Context) {
	wh, err := h.svc.Get(c.Request.Context(), middleware.MemberID(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, model.WorkHourEnvelope{
		Success: true,
		Data: model.WorkHourDetail{
			ID:          wh.ID,
			Date:        wh.Date,
			Description: wh.Description,
			Hours:       wh.Hours,
			FirstName:   wh.FirstName,
			LastName:    wh.LastName,
		},
	})
}

func (h *WorkHourHandler) Create(c *gin.Context) {
	var req model.WorkHourRequest
	if !bind(c, &req) {
		return
	}
	saved, err := h.svc.Create(c.Request.Context(), middleware.MemberID(c), submission(req))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, savedResponse("Arbeitsstunden erfolgreich eingetragen.", saved))
}

func (h *WorkHourHandler) Update(c *gin.Context) {
	var req model.WorkHourRequest
	if !bind(c, &req) {
		return
	}
	saved, err := h.svc.Update(c.Request.Context(), middleware.MemberID(c), c.Param("id"), submission(req))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, savedResponse("Arbeitsstunden erfolgreich aktualisiert.", saved))
}

func (h *WorkHourHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.MemberID(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Success: true, Message: "Eintrag gelöscht."})
}

func submission(req model.WorkHourRequest) workhours.Submission {
	return workhours.Submission{Date: req.Date, Description: req.Description, Hours: string(req.Hours)}
}

func savedResponse(msg string, s *service.Saved) model.SavedWorkHourResponse {
	return model.SavedWorkHourResponse{
		Success: true,
		Message: msg,
		Data: model.SavedWorkHour{
			ID:            s.ID,
			User:          s.Owner.Name(),
			Date:          s.Entry.Date,
			Description:   s.Entry.Description,
			Hours:         s.Entry.Hours,
			DurationHours: s.Entry.Hours,
		},
	}
}
