package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newReceiptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipt",
		Short: "Receipt image commands",
	}

	cmd.AddCommand(newReceiptUploadCmd())
	cmd.AddCommand(newReceiptDownloadCmd())
	cmd.AddCommand(newReceiptDeleteCmd())

	return cmd
}

func newReceiptUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <id> <file>",
		Short: "Upload a receipt image and extract its items",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer func() { _ = f.Close() }()

			var result Session

			path := fmt.Sprintf("/api/v1/sessions/%s/receipt", args[0])
			if err := client.Upload(path, "receipt", args[1], f, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newReceiptDownloadCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Download the session's receipt image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.httpClient.Get(
				fmt.Sprintf("%s/api/v1/sessions/%s/receipt", client.baseURL, args[0]))
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode != 200 {
				body, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
			}

			dest := os.Stdout
			if outFile != "" {
				dest, err = os.Create(outFile)
				if err != nil {
					return fmt.Errorf("failed to create file: %w", err)
				}
				defer func() { _ = dest.Close() }()
			}

			if _, err := io.Copy(dest, resp.Body); err != nil {
				return fmt.Errorf("failed to write image: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "file", "f", "", "Write the image to this file instead of stdout")

	return cmd
}

func newReceiptDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete the session's receipt image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/sessions/%s/receipt", args[0])
			if err := client.Delete(path, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Receipt deleted")
			return nil
		},
	}
}
