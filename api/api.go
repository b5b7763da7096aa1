// Package api exposes pipeline validation and the mock LLM over HTTP.
package api

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	"github.com/meikuraledutech/pipeline"
	"github.com/meikuraledutech/pipeline/config"
)

// New builds the Fiber app with all routes and middleware.
func New(cfg *config.Config, logger *log.Logger, completer pipeline.Completer) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "pipeline",
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		ErrorHandler: errorHandler(logger),
	})

	app.Use(newRequestID())
	app.Use(requestLogger(logger))
	app.Use(recoverer.New())
	app.Use(newCORS(cfg.CORS))

	h := &handlers{logger: logger, completer: completer}

	app.Get("/", h.ping)
	app.Post("/pipelines/parse", h.parsePipeline)
	app.Post("/api/llm", h.complete)

	return app
}

type handlers struct {
	logger    *log.Logger
	completer pipeline.Completer
}

func (h *handlers) ping(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"Ping": "Pong"})
}

func (h *handlers) parsePipeline(c fiber.Ctx) error {
	var p parsePayload
	if err := decodeBody(c, &p); err != nil {
		return err
	}
	g, err := p.graph()
	if err != nil {
		return err
	}

	res := g.Validate()
	if !res.IsDAG {
		h.logger.Debug("cycle detected",
			"request_id", requestid.FromContext(c),
			"cycle", strings.Join(res.Cycle, " -> "),
		)
	}
	h.logger.Debug("pipeline parsed",
		"request_id", requestid.FromContext(c),
		"num_nodes", res.NumNodes,
		"num_edges", res.NumEdges,
		"is_dag", res.IsDAG,
	)
	return c.JSON(res)
}

func (h *handlers) complete(c fiber.Ctx) error {
	var p completionPayload
	if err := decodeBody(c, &p); err != nil {
		return err
	}

	out, err := h.completer.Complete(c.Context(), p.request())
	if err != nil {
		return fmt.Errorf("api: complete: %w", err)
	}
	return c.JSON(out)
}
