package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxWait is the longest countdown honoured; larger or non-positive values
// mean no wait at all.
const MaxWait = 3600

// CountdownMessage is the text shown while n seconds remain.
func CountdownMessage(n int) string {
	unit := "seconds"
	if n == 1 {
		unit = "second"
	}
	return fmt.Sprintf("Waiting %d %s... ", n, unit)
}

// Countdown pauses between files while showing the remaining seconds on a
// single, repeatedly overwritten line.
type Countdown struct {
	Out io.Writer
	// Interactive renders the countdown as a bubbletea program. Only set it
	// when Out is a terminal.
	Interactive bool
	Color       bool
	// Sleep waits for one step; nil means a real, context-aware sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Wait counts down seconds, one line rewrite per elapsed second, and ends
// with a newline. It returns the context error if cancelled.
func (c Countdown) Wait(ctx context.Context, seconds int) error {
	if seconds <= 0 || seconds > MaxWait {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.Interactive {
		return c.runProgram(ctx, seconds)
	}

	sleep := c.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	fmt.Fprintln(c.Out)
	for n := seconds; n > 0; n-- {
		fmt.Fprint(c.Out, "\r"+render(waitStyle, CountdownMessage(n), c.Color))
		if err := sleep(ctx, time.Second); err != nil {
			fmt.Fprintln(c.Out)
			return err
		}
	}
	fmt.Fprintln(c.Out)
	return nil
}

func (c Countdown) runProgram(ctx context.Context, seconds int) error {
	fmt.Fprintln(c.Out)
	program := tea.NewProgram(
		newCountdownModel(seconds, time.Second, c.Color),
		tea.WithContext(ctx),
		tea.WithOutput(c.Out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	_, err := program.Run()
	fmt.Fprintln(c.Out)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
