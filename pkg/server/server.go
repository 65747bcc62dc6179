package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-formpredict/pkg/controller"
	"github.com/goliatone/go-formpredict/pkg/form"
	"github.com/goliatone/go-formpredict/pkg/inference"
	"github.com/goliatone/go-formpredict/pkg/openapi"
	"github.com/goliatone/go-formpredict/pkg/schema"
	"github.com/goliatone/go-formpredict/pkg/surfaces/web"
)

// Server routes HTTP requests to the page controller.
type Server struct {
	ctrl       *controller.Controller
	pages      *web.Renderer
	logger     *zap.Logger
	document   *openapi3.T
	docOptions openapi.Options
	origins    []string
	maxBody    int64
	router     *gin.Engine
}

// New wires the routes for ctrl. The OpenAPI document is generated once
// from the controller's registry.
func New(ctrl *controller.Controller, options ...Option) (*Server, error) {
	if ctrl == nil || ctrl.Registry() == nil {
		return nil, errors.New("server: controller with a registry is required")
	}

	s := &Server{
		ctrl:    ctrl,
		logger:  zap.NewNop(),
		maxBody: DefaultMaxBodyBytes,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	if s.pages == nil {
		pages, err := web.New()
		if err != nil {
			return nil, fmt.Errorf("server: web renderer: %w", err)
		}
		s.pages = pages
	}

	doc, err := openapi.Describe(context.Background(), ctrl.Registry(), s.docOptions)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s.document = doc
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.logger), limitBodySize(s.maxBody))
	if len(s.origins) > 0 {
		router.Use(corsMiddleware(s.origins))
	}

	router.StaticFS("/assets", http.FS(web.AssetsFS()))
	router.GET("/healthz", s.health)
	router.GET("/openapi.json", s.openAPI)

	router.GET("/", s.index)
	router.GET("/tasks/:name", s.page)
	router.POST("/tasks/:name", s.page)

	api := router.Group(openapi.TasksPath)
	api.GET("", s.listTasks)
	api.GET("/:name", s.showTask)
	api.POST("/:name/predict", s.predict)
	return router
}

func (s *Server) registry() *schema.Registry {
	return s.ctrl.Registry()
}

func (s *Server) health(c *gin.Context) {
	loaded := []string{}
	if gw := s.ctrl.Gateway(); gw != nil {
		loaded = gw.Loaded()
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"tasks":  s.registry().Len(),
		"models": loaded,
	})
}

func (s *Server) openAPI(c *gin.Context) {
	c.JSON(http.StatusOK, s.document)
}

func (s *Server) index(c *gin.Context) {
	task, err := s.registry().Default()
	if err != nil {
		s.renderPage(c, http.StatusNotFound, s.pages.ErrorPage(s.registry(), "no prediction tasks registered"))
		return
	}
	c.Redirect(http.StatusFound, s.pages.TaskURL(task.Name))
}

func (s *Server) page(c *gin.Context) {
	task, err := s.registry().Lookup(c.Param("name"))
	if err != nil {
		s.renderPage(c, http.StatusNotFound, s.pages.ErrorPage(s.registry(), controller.FailureMessage(err)))
		return
	}

	submitted := c.Request.Method == http.MethodPost
	values := map[string]string{}
	if submitted {
		if err := c.Request.ParseForm(); err != nil {
			s.renderPage(c, http.StatusBadRequest, s.pages.ErrorPage(s.registry(), "malformed form submission"))
			return
		}
		for key, vals := range c.Request.PostForm {
			if len(vals) > 0 {
				values[key] = vals[0]
			}
		}
	}

	surface := web.NewSurface(values, submitted)
	if _, err := s.ctrl.Cycle(c.Request.Context(), surface, task.Name); err != nil {
		_ = c.Error(err)
		s.renderPage(c, http.StatusInternalServerError, s.pages.ErrorPage(s.registry(), "unable to render the form"))
		return
	}
	s.renderPage(c, http.StatusOK, s.pages.Page(s.registry(), task, surface))
}

func (s *Server) renderPage(c *gin.Context, status int, page web.Page) {
	var buf bytes.Buffer
	if err := s.pages.Render(&buf, page); err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Data(status, s.pages.ContentType(), buf.Bytes())
}

func (s *Server) listTasks(c *gin.Context) {
	schemas := s.registry().Schemas()
	out := make([]taskView, 0, len(schemas))
	for _, task := range schemas {
		out = append(out, newTaskView(task))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) showTask(c *gin.Context) {
	task, err := s.registry().Lookup(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: controller.FailureMessage(err)})
		return
	}
	c.JSON(http.StatusOK, newTaskView(task))
}

func (s *Server) predict(c *gin.Context) {
	task, err := s.registry().Lookup(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: controller.FailureMessage(err)})
		return
	}

	values, err := decodeFeatures(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	submission, err := form.SubmissionFromStrings(task, values)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	report := s.ctrl.Evaluate(c.Request.Context(), task.Name, submission)
	c.JSON(statusFor(report), newPredictResponse(report))
}

func decodeFeatures(r *http.Request) (map[string]string, error) {
	var req predictRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid request body: %v", err)
	}
	if req.Features == nil {
		return nil, errors.New(`invalid request body: "features" is required`)
	}

	values := make(map[string]string, len(req.Features))
	for key, raw := range req.Features {
		switch v := raw.(type) {
		case nil:
		case string:
			values[key] = v
		case json.Number:
			values[key] = v.String()
		case float64:
			values[key] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return nil, fmt.Errorf("feature %q: expected a number or a string", key)
		}
	}
	return values, nil
}

func statusFor(report controller.Report) int {
	var loadErr *inference.LoadError
	switch {
	case report.Result != nil:
		return http.StatusOK
	case len(report.Errors) > 0:
		return http.StatusUnprocessableEntity
	case errors.Is(report.Failure, schema.ErrUnknownSchema):
		return http.StatusNotFound
	case errors.Is(report.Failure, inference.ErrModelNotFound),
		errors.As(report.Failure, &loadErr):
		return http.StatusServiceUnavailable
	case report.Failure != nil:
		return http.StatusInternalServerError
	}
	return http.StatusOK
}
