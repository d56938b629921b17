// Package search drives repeated OCR passes over a page, turning the page
// by 90 degrees after every pass that finds nothing, until a match is found
// or the rotation budget is spent.
package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/avast/retry-go/v4"
	"github.com/sirupsen/logrus"

	"github.com/gardar/redliner/pkg/matcher"
	"github.com/gardar/redliner/pkg/rederr"
)

// MaxRotations is the largest rotation budget: one initial pass plus three
// turns covers every orientation.
const MaxRotations = 3

// State of a Controller.
type State int

const (
	Searching State = iota
	Found
	Exhausted
)

func (s State) String() string {
	switch s {
	case Searching:
		return "searching"
	case Found:
		return "found"
	case Exhausted:
		return "exhausted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// PassFunc renders, recognizes and matches the page once.
type PassFunc func(ctx context.Context, attempt int) (matcher.Result, error)

// RotateFunc turns the page by a further 90 degrees.
type RotateFunc func() error

// errRotated marks a pass that found nothing and was followed by a rotation.
var errRotated = errors.New("nothing found, page rotated")

// Controller is the retry state machine for a single page.
type Controller struct {
	budget   int
	left     int
	state    State
	attempts int
	log      logrus.FieldLogger
}

// New creates a controller allowing budget rotations (0 to MaxRotations).
func New(budget int, log logrus.FieldLogger) (*Controller, error) {
	if budget < 0 || budget > MaxRotations {
		return nil, rederr.InvalidValue("rotation budget must be between 0 and %d, got %d", MaxRotations, budget)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{budget: budget, left: budget, state: Searching, log: log}, nil
}

func (c *Controller) State() State { return c.state }

// AttemptsLeft is the number of rotations still available.
func (c *Controller) AttemptsLeft() int { return c.left }

// Attempts is the number of passes run so far.
func (c *Controller) Attempts() int { return c.attempts }

// Run executes passes until one finds a match (Found), or none is left
// (Exhausted, NoMatch error). Pass errors, including AlreadyAnnotated,
// end the search immediately and are returned unchanged.
func (c *Controller) Run(ctx context.Context, pass PassFunc, rotate RotateFunc) (matcher.Result, error) {
	if c.state != Searching {
		return matcher.Result{}, fmt.Errorf("search already finished: %s", c.state)
	}

	res, err := retry.DoWithData(
		func() (matcher.Result, error) {
			c.attempts++
			res, err := pass(ctx, c.attempts)
			if err != nil {
				c.state = Exhausted
				return matcher.Result{}, err
			}
			return c.transition(res, rotate)
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.budget+1)),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return errors.Is(err, errRotated) }),
	)
	if err != nil {
		if c.state == Searching {
			c.state = Exhausted
		}
		return matcher.Result{}, err
	}
	return res, nil
}

func (c *Controller) transition(res matcher.Result, rotate RotateFunc) (matcher.Result, error) {
	if res.Found {
		c.state = Found
		return res, nil
	}
	if c.left == 0 {
		c.state = Exhausted
		c.log.WithField("passes", c.attempts).Warn("no tries left, check the document")
		return matcher.Result{}, rederr.NoMatch("document could not be matched after exhausting rotations (%d passes)", c.attempts)
	}
	if err := rotate(); err != nil {
		c.state = Exhausted
		return matcher.Result{}, fmt.Errorf("failed to rotate page: %w", err)
	}
	c.left--
	c.log.WithField("tries_left", c.left).Info("rotating the page")
	return matcher.Result{}, errRotated
}
