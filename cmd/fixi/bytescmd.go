package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/facade"
)

func newBytesCmd() *cobra.Command {
	var pathFlag string

	cmd := &cobra.Command{
		Use:   "bytes",
		Short: "read or write a path-addressed byte stream",
	}
	cmd.PersistentFlags().StringVar(&pathFlag, "path", "", "path to the byte stream (required)")
	cmd.MarkPersistentFlagRequired("path")

	cmd.AddCommand(newBytesGetCmd(&pathFlag))
	cmd.AddCommand(newBytesPutCmd(&pathFlag))
	return cmd
}

func newBytesGetCmd(pathFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "write the byte stream at path to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			resolver, err := buildMapResolver(a, *pathFlag)
			if err != nil {
				return err
			}
			b := facade.NewBytes(a.ws, resolver, a.store, cid.DefaultHasher, a.cache)
			b.SetLogger(a.logger)

			_, found, err := b.Read(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if !found {
				return os.ErrNotExist
			}
			return nil
		},
	}
}

func newBytesPutCmd(pathFlag *string) *cobra.Command {
	var commit bool
	c := &cobra.Command{
		Use:   "put",
		Short: "read stdin and stage it as the byte stream at path",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			resolver, err := buildMapResolver(a, *pathFlag)
			if err != nil {
				return err
			}
			b := facade.NewBytes(a.ws, resolver, a.store, cid.DefaultHasher, a.cache)
			b.SetLogger(a.logger)

			if _, err := b.Stage(cmd.InOrStdin()); err != nil {
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
