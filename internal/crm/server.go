package crm

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// APIResponse is the envelope of every relay response.
type APIResponse struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respond(c *gin.Context, code int, message string, data any) {
	status := "success"
	if code >= 400 {
		status = "error"
	}
	c.JSON(code, APIResponse{
		Status:  status,
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

// TraceID tags each request with a fresh trace id.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Request-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Set("trace_id", traceID)
		c.Writer.Header().Set("X-Trace-ID", traceID)
		c.Next()
	}
}

// RequestLogger logs one record per request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("trace_id", c.GetString("trace_id")),
		)
	}
}

// LeadController serves the lead intake endpoint.
type LeadController struct {
	syncer Syncer
	logger *slog.Logger
}

func NewLeadController(syncer Syncer, logger *slog.Logger) *LeadController {
	return &LeadController{syncer: syncer, logger: logger}
}

// leadBody accepts the lead either at the top level or wrapped in a
// database-webhook style "record" field.
type leadBody struct {
	LeadRequest
	Record *LeadRequest `json:"record"`
}

// CreateLead records a posted lead in the CRM.
func (lc *LeadController) CreateLead(c *gin.Context) {
	var body leadBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respond(c, http.StatusBadRequest, "Invalid request payload", nil)
		return
	}

	req := body.LeadRequest
	if body.Record != nil {
		req = *body.Record
	}
	if missing := req.Missing(); len(missing) > 0 {
		respond(c, http.StatusBadRequest, "Missing fields: "+strings.Join(missing, ", "), nil)
		return
	}

	res, err := lc.syncer.Sync(c.Request.Context(), req)
	if err != nil {
		lc.logger.Error("lead sync failed",
			slog.String("trace_id", c.GetString("trace_id")),
			slog.String("error", err.Error()),
		)
		respond(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	respond(c, http.StatusOK, "Lead recorded", res)
}

// NewRouter wires the relay routes.
func NewRouter(lc *LeadController, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(TraceID())
	r.Use(RequestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		respond(c, http.StatusOK, "ok", nil)
	})
	r.POST("/leads", lc.CreateLead)
	r.POST("/odoo-sync", lc.CreateLead)

	return r
}
