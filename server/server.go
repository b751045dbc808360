package server

import (
	"bytes"
	"net/http"

	"github.com/Reimouto/superchain-ops/audit"
	"github.com/Reimouto/superchain-ops/report"
	"github.com/Reimouto/superchain-ops/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Server exposes the audit pipeline over HTTP for CI-driven reviews.
type Server struct {
	auditor *audit.Auditor
	log     *logrus.Logger
}

// New creates a Server around an already-wired Auditor.
func New(auditor *audit.Auditor, log *logrus.Logger) *Server {
	return &Server{auditor: auditor, log: log}
}

// auditRequest is the POST /audit body: the simulation trace plus rendering
// options.
type auditRequest struct {
	Accesses      []types.AccountAccess `json:"accesses" binding:"required"`
	Sort          bool                  `json:"sort"`
	Signer        string                `json:"signer"`
	SignerOwners  []string              `json:"signerOwners"`
	OperationHash string                `json:"operationHash"`
}

type auditResponse struct {
	Report    string            `json:"report"`
	Rows      []types.ReportRow `json:"rows"`
	Transfers []types.Transfer  `json:"transfers"`
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/audit", s.handleAudit)

	return router
}

// Start runs the HTTP server on addr until it fails.
func (s *Server) Start(addr string) error {
	s.log.Infof("Serving audit API on %s", addr)
	return s.Router().Run(addr)
}

func (s *Server) handleAudit(c *gin.Context) {
	var req auditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.auditor.Run(c.Request.Context(), req.Accesses, req.Sort)
	if err != nil {
		s.log.Warnf("Audit failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	opts := report.Options{
		Signer:        common.HexToAddress(req.Signer),
		OperationHash: common.HexToHash(req.OperationHash),
	}
	for _, owner := range req.SignerOwners {
		opts.SignerOwners = append(opts.SignerOwners, common.HexToAddress(owner))
	}

	var rendered bytes.Buffer
	if err := report.Render(&rendered, result.Rows, result.Transfers, opts); err != nil {
		// The trace produced no decodable state change; surface it as a
		// client-visible failure rather than an empty report.
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, auditResponse{
		Report:    rendered.String(),
		Rows:      result.Rows,
		Transfers: result.Transfers,
	})
}
