package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/pixels-conf/internal/application"
	"github.com/eugenenazirov/pixels-conf/internal/settings"
	"github.com/eugenenazirov/pixels-conf/internal/writer"
)

type cli struct {
	out    io.Writer
	src    application.Sources
	logger *zap.Logger
}

func (c *cli) list() error {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tLEGACY KEY\tTYPE\tDEFAULT\tDESCRIPTION")
	for _, s := range settings.All() {
		def := "-"
		if v, ok := s.Default(); ok {
			def = settings.Format(v)
		}
		legacy := s.LegacyKey()
		if legacy == "" {
			legacy = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Key(), legacy, s.Kind(), def, oneLine(s.Description()))
	}
	return tw.Flush()
}

func (c *cli) get(key string) error {
	s, err := settings.Lookup(key)
	if err != nil {
		return err
	}

	v, err := s.Value(c.src.Properties, c.src.Store)
	if err != nil {
		return err
	}
	c.logger.Debug("setting resolved",
		zap.String("key", key),
		zap.Stringer("source", s.Resolve(c.src.Properties, c.src.Store).Source),
	)
	_, err = fmt.Fprintln(c.out, settings.Format(v))
	return err
}

func (c *cli) set(key, raw string) error {
	s, err := settings.Lookup(key)
	if err != nil {
		return err
	}
	if err := s.Set(c.src.Store, raw); err != nil {
		return err
	}

	stored, _ := c.src.Store.Get(key)
	_, err = fmt.Fprintf(c.out, "%s=%s\n", key, stored)
	return err
}

func (c *cli) explain() error {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE\tFROM")

	var failed []string
	for _, s := range settings.All() {
		res := s.Resolve(c.src.Properties, c.src.Store)
		value := "-"
		v, err := s.Value(c.src.Properties, c.src.Store)
		switch {
		case err == nil:
			value = settings.Format(v)
		case errors.Is(err, settings.ErrMissingDefault):
		default:
			value = "!" + res.Raw
			failed = append(failed, err.Error())
		}
		from := res.Key
		if from == "" {
			from = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Key(), value, res.Source, from)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(failed) > 0 {
		sort.Strings(failed)
		return fmt.Errorf("%d malformed values: %s", len(failed), strings.Join(failed, "; "))
	}
	return nil
}

func (c *cli) options() error {
	opts, err := writer.Resolve(c.src.Properties, c.src.Store)
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	enc := yaml.NewEncoder(c.out)
	enc.SetIndent(2)
	if err := enc.Encode(opts); err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	return enc.Close()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
