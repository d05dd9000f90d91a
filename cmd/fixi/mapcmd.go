package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fixitydb/fixity/internal/cache"
	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/content"
	"github.com/fixitydb/fixity/internal/facade"
	"github.com/fixitydb/fixity/internal/kvtext"
	"github.com/fixitydb/fixity/internal/path"
	"github.com/fixitydb/fixity/internal/prolly"
	"github.com/fixitydb/fixity/internal/value"
)

func newMapCmd() *cobra.Command {
	var pathFlag string

	cmd := &cobra.Command{
		Use:   "map",
		Short: "read or write a path-addressed keyed map",
	}
	cmd.PersistentFlags().StringVar(&pathFlag, "path", "", "path to the map (required)")
	cmd.MarkPersistentFlagRequired("path")

	cmd.AddCommand(newMapGetCmd(&pathFlag))
	cmd.AddCommand(newMapPutCmd(&pathFlag))
	cmd.AddCommand(newMapLsCmd(&pathFlag))
	cmd.AddCommand(newMapDiffCmd(&pathFlag))
	return cmd
}

func buildMapResolver(a *app, p string) (path.Resolver, error) {
	segments, err := kvtext.ParsePath(p)
	if err != nil {
		return path.Resolver{}, err
	}
	segs := make([]path.Segment, 0, len(segments))
	for _, s := range segments {
		segs = append(segs, path.NewMapSegment(a.store, cid.DefaultHasher, a.cache, value.NewKey(value.String(s))))
	}
	return path.NewResolver(segs...), nil
}

func newMapGetCmd(pathFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <KEY>",
		Short: "print the value stored at KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			resolver, err := buildMapResolver(a, *pathFlag)
			if err != nil {
				return err
			}
			m := facade.NewMap(a.ws, resolver, a.store, cid.DefaultHasher, a.cache)
			m.SetLogger(a.logger)

			key, err := kvtext.ParseValue(args[0])
			if err != nil {
				return err
			}
			v, found, err := m.Get(value.NewKey(key))
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("key not found: %s", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), kvtext.FormatValue(v))
			return nil
		},
	}
}

func newMapPutCmd(pathFlag *string) *cobra.Command {
	var commit bool
	c := &cobra.Command{
		Use:   "put <KEY> <VALUE>",
		Short: "insert KEY -> VALUE into the map",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			resolver, err := buildMapResolver(a, *pathFlag)
			if err != nil {
				return err
			}
			m := facade.NewMap(a.ws, resolver, a.store, cid.DefaultHasher, a.cache)
			m.SetLogger(a.logger)

			key, err := kvtext.ParseValue(args[0])
			if err != nil {
				return err
			}
			val, err := kvtext.ParseValue(args[1])
			if err != nil {
				return err
			}
			if err := m.Insert(value.NewKey(key), val); err != nil {
				return err
			}
			if commit {
				g, err := a.ws.Lock()
				if err != nil {
					return err
				}
				defer g.Unlock()
				if _, err := g.Commit(); err != nil {
					return err
				}
			}
			return nil
		},
	}
	c.Flags().BoolVar(&commit, "commit", false, "commit immediately after staging")
	return c
}

func newMapLsCmd(pathFlag *string) *cobra.Command {
	var start, end string
	c := &cobra.Command{
		Use:   "ls",
		Short: "list entries in the map",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			resolver, err := buildMapResolver(a, *pathFlag)
			if err != nil {
				return err
			}

			root, hasRoot, err := a.ws.ContentAddr()
			if err != nil {
				return err
			}
			if !hasRoot {
				return nil
			}
			leafCid, found, err := resolver.ResolveLast(root)
			if err != nil {
				return err
			}
			if !found {
				return nil
			}

			lower, err := boundCursor(start)
			if err != nil {
				return err
			}
			upper, err := boundCursor(end)
			if err != nil {
				return err
			}

			tree := newTreeHandle(a)
			for k, v := range tree.Iter(leafCid, lower, upper) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", kvtext.FormatValue(k.V), kvtext.FormatValue(v))
			}
			return nil
		},
	}
	c.Flags().StringVar(&start, "start", "", "inclusive lower bound key")
	c.Flags().StringVar(&end, "end", "", "inclusive upper bound key")
	return c
}

func newMapDiffCmd(pathFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <COMMIT_OR_CONTENT_CID>",
		Short: "compare the map against another commit or content address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			resolver, err := buildMapResolver(a, *pathFlag)
			if err != nil {
				return err
			}
			m := facade.NewMap(a.ws, resolver, a.store, cid.DefaultHasher, a.cache)
			m.SetLogger(a.logger)

			other, err := cid.Decode(args[0])
			if err != nil {
				return err
			}
			result, err := m.Diff(other)
			if err != nil {
				return err
			}
			for _, p := range result.Added {
				fmt.Fprintf(cmd.OutOrStdout(), "+ %s -> %s\n", kvtext.FormatValue(p.Key.V), kvtext.FormatValue(p.Value))
			}
			for _, mod := range result.Modified {
				fmt.Fprintf(cmd.OutOrStdout(), "~ %s: %s -> %s\n", kvtext.FormatValue(mod.Key.V), kvtext.FormatValue(mod.OldValue), kvtext.FormatValue(mod.NewValue))
			}
			for _, k := range result.Deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", kvtext.FormatValue(k.V))
			}
			return nil
		},
	}
}

func newTreeHandle(a *app) *prolly.Tree {
	return prolly.New(a.store, cid.DefaultHasher, a.cache)
}

func boundCursor(s string) (prolly.Cursor, error) {
	if s == "" {
		return prolly.UnboundedCursor(), nil
	}
	v, err := kvtext.ParseValue(s)
	if err != nil {
		return prolly.Cursor{}, err
	}
	return prolly.IncludedKey(value.NewKey(v)), nil
}
