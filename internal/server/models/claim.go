package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/common"
)

const (
	// ClaimIDPrefix prefixes every claim id, e.g. "FGV12".
	ClaimIDPrefix = "FGV"
	// MaxClaimEntries caps each of Claims, Ratings and Links.
	MaxClaimEntries = 3
)

// Claim is the stored result of a claim-verification lookup. Claims,
// Ratings and Links are parallel lists.
type Claim struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	Query    string    `json:"query"`
	Claims   []string  `json:"claims"`
	Ratings  []string  `json:"ratings"`
	Links    []string  `json:"links"`
	Language string    `json:"language"`
	Date     time.Time `json:"date"`
}

func (c *Claim) RecordID() string         { return c.ID }
func (c *Claim) SetRecordID(id string)    { c.ID = id }
func (c *Claim) OwnerID() string          { return c.UserID }
func (c *Claim) SetOwnerID(userID string) { c.UserID = userID }

func (c *Claim) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Query) == "" {
		missing = append(missing, "query")
	}
	if c.Claims == nil {
		missing = append(missing, "claims")
	}
	if c.Ratings == nil {
		missing = append(missing, "ratings")
	}
	if c.Links == nil {
		missing = append(missing, "links")
	}
	if strings.TrimSpace(c.Language) == "" {
		missing = append(missing, "language")
	}
	if c.Date.IsZero() {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s: %w", strings.Join(missing, ", "), common.ErrValidation)
	}

	if len(c.Claims) > MaxClaimEntries || len(c.Ratings) > MaxClaimEntries || len(c.Links) > MaxClaimEntries {
		return fmt.Errorf("claims, ratings and links may hold at most %d entries each: %w", MaxClaimEntries, common.ErrValidation)
	}
	return nil
}
