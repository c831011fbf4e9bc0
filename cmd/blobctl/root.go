package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gestaozabele/arquivos/internal/storage"
)

type openFunc func(ctx context.Context) (storage.Client, error)

func newRootCmd(open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "blobctl",
		Short:        "Administra blobs do container configurado",
		SilenceUsage: true,
	}

	cmd.AddCommand(
		newExistsCmd(open),
		newUploadCmd(open),
		newDownloadCmd(open),
		newDeleteCmd(open),
	)

	return cmd
}

// withResource abre o cliente, executa fn e garante o Close.
func withResource(cmd *cobra.Command, open openFunc, name string, fn func(*storage.Resource) error) error {
	client, err := open(cmd.Context())
	if err != nil {
		return fmt.Errorf("abrir armazenamento: %w", err)
	}
	defer client.Close()

	if !storage.Configured(client) {
		return storage.ErrNotConfigured
	}
	return fn(storage.NewResource(client, name))
}

func newExistsCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <nome>",
		Short: "Informa se o blob existe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withResource(cmd, open, args[0], func(res *storage.Resource) error {
				ok, err := res.Exists(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ok)
				return nil
			})
		},
	}
}

func newUploadCmd(open openFunc) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "upload <arquivo>",
		Short: "Envia um arquivo local ao container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("ler %s: %w", args[0], err)
			}
			if name == "" {
				name = filepath.Base(args[0])
			}
			return withResource(cmd, open, name, func(res *storage.Resource) error {
				if err := res.Upload(cmd.Context(), data); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s enviado (%d bytes)\n", name, len(data))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "nome do blob (padrão: nome do arquivo)")
	return cmd
}

func newDownloadCmd(open openFunc) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <nome>",
		Short: "Baixa um blob para um arquivo ou stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withResource(cmd, open, args[0], func(res *storage.Resource) error {
				data, err := res.ReadAll(cmd.Context())
				if errors.Is(err, storage.ErrNotFound) {
					return fmt.Errorf("%s não encontrado", args[0])
				}
				if err != nil {
					return err
				}

				var w io.Writer = cmd.OutOrStdout()
				if output != "" && output != "-" {
					return os.WriteFile(output, data, 0o644)
				}
				_, err = w.Write(data)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "arquivo de destino")
	return cmd
}

func newDeleteCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <nome>",
		Short: "Remove o blob do container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withResource(cmd, open, args[0], func(res *storage.Resource) error {
				if err := res.Delete(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s removido\n", args[0])
				return nil
			})
		},
	}
}
