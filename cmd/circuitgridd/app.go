package main

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/vk/circuitgrid/internal/circuitfile"
	"github.com/vk/circuitgrid/internal/snapstore"
)

// buildRequest is the body of POST /circuits/build: HCL circuit source
// to parse, build and persist.
type buildRequest struct {
	Source string `json:"source"`
}

// programLine is one operation in a circuit's topological listing.
type programLine struct {
	Name  string   `json:"name"`
	Qargs []string `json:"qargs"`
	Cargs []string `json:"cargs,omitempty"`
}

// newApp wires the HTTP routes over the given snapshot store.
func newApp(store snapstore.Store) *fiber.App {
	app := fiber.New()

	// ── Snapshots ─────────────────────────────────────────────────────
	app.Post("/circuits", func(c fiber.Ctx) error {
		var snap snapstore.CircuitSnapshot
		if err := c.Bind().JSON(&snap); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		if snap.ID == uuid.Nil {
			snap.ID = uuid.New()
		}
		if snap.CreatedAt.IsZero() {
			snap.CreatedAt = time.Now().UTC()
		}

		// Reject snapshots that cannot rebuild into a valid graph.
		if _, err := snapstore.Rebuild(c.Context(), snap); err != nil {
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		}

		if err := store.Save(c.Context(), snap); err != nil {
			if errors.Is(err, snapstore.ErrDuplicateID) {
				return c.Status(409).JSON(fiber.Map{"error": "snapshot ID already exists"})
			}
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(201).JSON(fiber.Map{"id": snap.ID})
	})

	app.Post("/circuits/build", func(c fiber.Ctx) error {
		var req buildRequest
		if err := c.Bind().JSON(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		circuits, err := circuitfile.LoadBytes(c.Context(), "request.hcl", []byte(req.Source))
		if err != nil {
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		}
		if len(circuits) == 0 {
			return c.Status(422).JSON(fiber.Map{"error": "no circuits in source"})
		}

		ids := make([]uuid.UUID, 0, len(circuits))
		for _, circ := range circuits {
			snap, err := snapstore.Capture(circ.Name, circ.DAG)
			if err != nil {
				return c.Status(500).JSON(fiber.Map{"error": err.Error()})
			}
			if err := store.Save(c.Context(), snap); err != nil {
				return c.Status(500).JSON(fiber.Map{"error": err.Error()})
			}
			ids = append(ids, snap.ID)
		}
		return c.Status(201).JSON(fiber.Map{"ids": ids})
	})

	app.Get("/circuits", func(c fiber.Ctx) error {
		snaps, err := store.List(c.Context())
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		if snaps == nil {
			snaps = []snapstore.CircuitSnapshot{}
		}
		return c.JSON(snaps)
	})

	app.Get("/circuits/:id", func(c fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid snapshot ID"})
		}
		snap, err := store.Get(c.Context(), id)
		if errors.Is(err, snapstore.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "snapshot not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(snap)
	})

	app.Delete("/circuits/:id", func(c fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid snapshot ID"})
		}
		err = store.Delete(c.Context(), id)
		if errors.Is(err, snapstore.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "snapshot not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(204)
	})

	app.Get("/circuits/:id/nodes/:index", func(c fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid snapshot ID"})
		}
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid node index"})
		}
		node, err := store.GetNode(c.Context(), id, index)
		if errors.Is(err, snapstore.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "node not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(node)
	})

	// ── Program listing ───────────────────────────────────────────────
	app.Get("/circuits/:id/program", func(c fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid snapshot ID"})
		}
		snap, err := store.Get(c.Context(), id)
		if errors.Is(err, snapstore.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "snapshot not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}

		d, err := snapstore.Rebuild(c.Context(), snap)
		if err != nil {
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		}
		ops, err := d.TopologicalOpOrder()
		if err != nil {
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		}

		program := make([]programLine, 0, len(ops))
		for _, op := range ops {
			line := programLine{Name: op.Name()}
			for _, w := range op.Qargs() {
				line.Qargs = append(line.Qargs, w.String())
			}
			for _, w := range op.Cargs() {
				line.Cargs = append(line.Cargs, w.String())
			}
			program = append(program, line)
		}
		return c.JSON(fiber.Map{"name": snap.Name, "program": program})
	})

	return app
}
