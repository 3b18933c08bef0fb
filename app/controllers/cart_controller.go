package controllers

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/neomdavid/IAX-ROLEX-backend/app/models"
	"github.com/neomdavid/IAX-ROLEX-backend/app/store"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/apperr"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/ctx"
)

// CartController serves the caller's own cart. Every route sits behind the
// auth guard.
type CartController struct {
	carts   store.Carts
	watches store.Watches
}

func NewCartController(carts store.Carts, watches store.Watches) *CartController {
	return &CartController{carts: carts, watches: watches}
}

func owner(c *ctx.Context) (string, error) {
	p, ok := c.Principal()
	if !ok || p.UserID == "" {
		return "", apperr.Unauthenticated("Authentication invalid")
	}
	return p.UserID, nil
}

// Show handles GET /carts.
func (cc *CartController) Show(c *ctx.Context) error {
	user, err := owner(c)
	if err != nil {
		return err
	}
	cart, err := cc.carts.Get(c.Context(), user)
	if errors.Is(err, store.ErrNotFound) {
		uid, _ := primitive.ObjectIDFromHex(user)
		cart, err = models.EmptyCart(uid), nil
	}
	if err != nil {
		return fmt.Errorf("get cart: %w", err)
	}
	return c.OK(map[string]any{"cart": cart})
}

// Add handles POST /carts.
func (cc *CartController) Add(c *ctx.Context) error {
	user, err := owner(c)
	if err != nil {
		return err
	}
	var in models.CartItemInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	if _, err := cc.watches.FindByID(c.Context(), in.WatchID); err != nil {
		return notFound(err, "No watch id : %s", in.WatchID)
	}
	cart, err := cc.carts.AddItem(c.Context(), user, in.WatchID, in.Quantity)
	if err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	return c.Created(map[string]any{"cart": cart, "posted": true})
}

// Update handles PATCH /carts/{watchId}.
func (cc *CartController) Update(c *ctx.Context) error {
	user, err := owner(c)
	if err != nil {
		return err
	}
	var in models.CartQuantityInput
	if err := c.Bind(&in); err != nil {
		return err
	}

	watchID := c.Param("watchId")
	cart, err := cc.carts.SetQuantity(c.Context(), user, watchID, in.Quantity)
	if err != nil {
		return notFound(err, "No item with watch id: %s in cart", watchID)
	}
	return c.OK(map[string]any{"cart": cart, "updated": true})
}

// Remove handles DELETE /carts/{watchId}.
func (cc *CartController) Remove(c *ctx.Context) error {
	user, err := owner(c)
	if err != nil {
		return err
	}
	watchID := c.Param("watchId")
	cart, err := cc.carts.RemoveItem(c.Context(), user, watchID)
	if err != nil {
		return notFound(err, "No item with watch id: %s in cart", watchID)
	}
	return c.OK(map[string]any{"cart": cart, "deleted": true})
}

// Clear handles DELETE /carts.
func (cc *CartController) Clear(c *ctx.Context) error {
	user, err := owner(c)
	if err != nil {
		return err
	}
	cart, err := cc.carts.Clear(c.Context(), user)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return c.OK(map[string]any{"cart": cart, "deleted": true})
}
