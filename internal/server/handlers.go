package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hay-kot/criterio"

	"github.com/studioops/reelflow/internal/core/report"
	"github.com/studioops/reelflow/internal/core/task"
	"github.com/studioops/reelflow/internal/core/workflow"
)

// viewQuery binds the serializable view context from the query string.
type viewQuery struct {
	Mode       string `form:"view"`
	Month      string `form:"month"`
	Card       string `form:"card"`
	Status     string `form:"status"`
	Search     string `form:"search"`
	Member     string `form:"member"`
	Assignment string `form:"assignment"`
}

func (q viewQuery) toContext() (workflow.ViewContext, error) {
	mode, err := workflow.ParseViewMode(q.Mode)
	if err != nil {
		return workflow.ViewContext{}, err
	}
	return workflow.ViewContext{
		Mode:             mode,
		MonthKey:         q.Month,
		CardFilter:       q.Card,
		StatusFilter:     q.Status,
		Search:           q.Search,
		MemberScope:      q.Member,
		AssignmentFilter: workflow.AssignmentFilter(q.Assignment),
	}.Normalized(), nil
}

// taskListResponse pairs the visible tasks with the dashboard card counts.
type taskListResponse struct {
	Tasks  []task.Task         `json:"tasks"`
	Counts workflow.CardCounts `json:"counts"`
}

func (s *Server) listTasks(c *gin.Context) {
	var q viewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respError(c, http.StatusBadRequest, err)
		return
	}

	vc, err := q.toContext()
	if err != nil {
		respError(c, http.StatusBadRequest, err)
		return
	}

	visible := s.app.Snapshots.Visible(vc)
	respOK(c, taskListResponse{Tasks: visible, Counts: workflow.Counts(visible)})
}

func (s *Server) createTask(c *gin.Context) {
	var draft task.Task
	if err := c.ShouldBindJSON(&draft); err != nil {
		respError(c, http.StatusBadRequest, err)
		return
	}

	created, err := s.app.Tasks.Create(c.Request.Context(), draft)
	if err != nil {
		s.respOpError(c, err)
		return
	}
	respOK(c, created)
}

type statusBody struct {
	Status string `json:"status"`
	Actor  string `json:"actor"`
}

func (s *Server) updateStatus(c *gin.Context) {
	var body statusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respError(c, http.StatusBadRequest, err)
		return
	}

	t, err := s.app.Tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respOpError(c, err)
		return
	}

	updated, err := s.app.Tasks.Transition(c.Request.Context(), t, task.Status(body.Status), body.Actor)
	if err != nil {
		s.respOpError(c, err)
		return
	}
	respOK(c, updated)
}

type assignBody struct {
	Worker string `json:"worker"`
}

func (s *Server) assignTask(c *gin.Context) {
	var body assignBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respError(c, http.StatusBadRequest, err)
		return
	}

	t, err := s.app.Tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respOpError(c, err)
		return
	}

	updated, err := s.app.Tasks.AssignToWorker(c.Request.Context(), t, body.Worker)
	if err != nil {
		s.respOpError(c, err)
		return
	}
	respOK(c, updated)
}

type approvalBody struct {
	Employee string `json:"employee"`
}

func (s *Server) routeToApproval(c *gin.Context) {
	var body approvalBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respError(c, http.StatusBadRequest, err)
		return
	}

	t, err := s.app.Tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respOpError(c, err)
		return
	}

	updated, err := s.app.Tasks.RouteToApproval(c.Request.Context(), t, body.Employee)
	if err != nil {
		s.respOpError(c, err)
		return
	}
	respOK(c, updated)
}

type revisionBody struct {
	Message string `json:"message"`
}

func (s *Server) requestRevision(c *gin.Context) {
	var body revisionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respError(c, http.StatusBadRequest, err)
		return
	}

	t, err := s.app.Tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respOpError(c, err)
		return
	}

	updated, err := s.app.Tasks.RequestRevision(c.Request.Context(), t, body.Message)
	if err != nil {
		s.respOpError(c, err)
		return
	}
	respOK(c, updated)
}

// reportResponse carries buckets plus summary totals, enough to render
// document and spreadsheet reports without re-deriving business rules.
type reportResponse struct {
	Buckets []bucketInfo  `json:"buckets"`
	Summary report.Totals `json:"summary"`
}

type bucketInfo struct {
	report.Bucket
	CompletionRate int `json:"completionRate"`
}

func (s *Server) reportByDimension(c *gin.Context) {
	dim, err := report.ParseDimension(c.Param("dimension"))
	if err != nil {
		respError(c, http.StatusBadRequest, err)
		return
	}

	var q viewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respError(c, http.StatusBadRequest, err)
		return
	}
	vc, err := q.toContext()
	if err != nil {
		respError(c, http.StatusBadRequest, err)
		return
	}

	buckets := report.GroupBy(s.app.Snapshots.Visible(vc), dim)
	infos := make([]bucketInfo, 0, len(buckets))
	for _, b := range buckets {
		infos = append(infos, bucketInfo{Bucket: b, CompletionRate: b.CompletionRate()})
	}

	respOK(c, reportResponse{Buckets: infos, Summary: report.Summary(buckets)})
}

func (s *Server) trend(c *gin.Context) {
	respOK(c, report.DailyTrend(s.app.Snapshots.Eligible(), time.Now()))
}

// respOpError maps operation failures to status codes: validation problems
// are 422, unknown tasks 404, store write failures 502.
func (s *Server) respOpError(c *gin.Context, err error) {
	var fieldErrs criterio.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		respError(c, http.StatusUnprocessableEntity, err)
	case errors.Is(err, task.ErrNotFound):
		respError(c, http.StatusNotFound, err)
	default:
		respError(c, http.StatusBadGateway, err)
	}
}
