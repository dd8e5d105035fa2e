package domain

import "github.com/google/uuid"

// CartID and CartItemID are generated by this service at creation time.
// ProductID and UserID are supplied by callers and treated as opaque tokens
// compared by value.

type CartID string

func NewCartID() CartID { return CartID(uuid.NewString()) }

type CartItemID string

func NewCartItemID() CartItemID { return CartItemID(uuid.NewString()) }

type ProductID string

type UserID string
