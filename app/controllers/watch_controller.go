package controllers

import (
	"fmt"

	"github.com/neomdavid/IAX-ROLEX-backend/app/media"
	"github.com/neomdavid/IAX-ROLEX-backend/app/models"
	"github.com/neomdavid/IAX-ROLEX-backend/app/store"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/apperr"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/ctx"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/logger"
)

// WatchController serves the catalog.
type WatchController struct {
	watches store.Watches
	media   *media.Ingestor
}

func NewWatchController(watches store.Watches, ing *media.Ingestor) *WatchController {
	return &WatchController{watches: watches, media: ing}
}

// Create handles POST /watches. The image is required and only written
// once the fields are valid.
func (wc *WatchController) Create(c *ctx.Context) error {
	defer media.Cleanup(c.R)

	up, err := wc.media.Stage(c.R, media.DefaultField)
	if err != nil {
		return err
	}
	if up == nil {
		return apperr.Validation("Please upload a watch image")
	}

	var in models.WatchInput
	if err := c.Bind(&in); err != nil {
		return err
	}

	image, err := up.Save(c.Context())
	if err != nil {
		return err
	}

	w := in.Watch(image)
	if err := wc.watches.Create(c.Context(), w); err != nil {
		logger.WithCtx(c.Context()).Warn("stored image has no watch", "image", image, "filename", up.Filename())
		return fmt.Errorf("create watch: %w", err)
	}
	return c.Created(map[string]any{"watch": w, "posted": true})
}

// Show handles GET /watches/{id}. The record is returned at top level with
// watchImage as an absolute URL.
func (wc *WatchController) Show(c *ctx.Context) error {
	id := c.Param("id")
	w, err := wc.watches.FindByID(c.Context(), id)
	if err != nil {
		return notFound(err, "No watch id : %s", id)
	}
	w.WatchImage = c.AbsoluteURL(w.WatchImage)
	return c.OK(w)
}

// Index handles GET /watches?category=.
func (wc *WatchController) Index(c *ctx.Context) error {
	var f store.WatchFilter
	if cat := c.Query("category"); cat != "all" {
		f.Category = cat
	}
	watches, err := wc.watches.Find(c.Context(), f)
	if err != nil {
		return fmt.Errorf("list watches: %w", err)
	}
	if watches == nil {
		watches = []models.Watch{}
	}
	return c.OK(map[string]any{"watches": watches, "count": len(watches)})
}

// Delete handles DELETE /watches/{id}.
func (wc *WatchController) Delete(c *ctx.Context) error {
	id := c.Param("id")
	w, err := wc.watches.Delete(c.Context(), id)
	if err != nil {
		return notFound(err, "No watch id : %s", id)
	}
	return c.OK(map[string]any{"watch": w, "deleted": true})
}

// Update handles PATCH and PUT /watches/{id}. A new image replaces the
// stored path; the previous file is kept. The watch must exist before a
// new file is written.
func (wc *WatchController) Update(c *ctx.Context) error {
	defer media.Cleanup(c.R)
	id := c.Param("id")

	up, err := wc.media.Stage(c.R, media.DefaultField)
	if err != nil {
		return err
	}

	var u models.WatchUpdate
	if err := c.Bind(&u); err != nil {
		return err
	}
	if up == nil {
		if err := u.Check(); err != nil {
			return err
		}
	} else {
		if _, err := wc.watches.FindByID(c.Context(), id); err != nil {
			return notFound(err, "No watch with id: %s", id)
		}
		image, err := up.Save(c.Context())
		if err != nil {
			return err
		}
		u.WatchImage = &image
	}

	w, err := wc.watches.Update(c.Context(), id, u)
	if err != nil {
		return notFound(err, "No watch with id: %s", id)
	}
	return c.OK(map[string]any{"watch": w, "updated": true})
}
