package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session commands",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionItemsCmd())
	cmd.AddCommand(newSessionParticipantsCmd())
	cmd.AddCommand(newSessionRemoveParticipantCmd())
	cmd.AddCommand(newSessionCalculateCmd())
	cmd.AddCommand(newSessionExtractCmd())
	cmd.AddCommand(newSessionFinalizeCmd())

	return cmd
}

func newSessionCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a new bill session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session

			if err := client.Post("/api/v1/sessions", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session

			if err := client.Get(fmt.Sprintf("/api/v1/sessions/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionItemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "items <id> <name=price[=pid1,pid2]>...",
		Short: "Replace the session's items",
		Long: `Replace the session's items. Each item is name=price with an optional
comma-separated list of participant IDs to share it between, for example:

  tabsplit session items ABCD2345 "Burger=12.99=p1,p2" "Fries=4.50"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			items := make([]map[string]any, 0, len(args)-1)
			for _, spec := range args[1:] {
				item, err := parseItemSpec(spec)
				if err != nil {
					return err
				}
				items = append(items, item)
			}

			req := map[string]any{"items": items}
			var result Session

			if err := client.Put(fmt.Sprintf("/api/v1/sessions/%s/items", id), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionParticipantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "participants <id> <name[=tag]>...",
		Short: "Replace the session's participants",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			participants := make([]map[string]string, 0, len(args)-1)
			for _, spec := range args[1:] {
				p := map[string]string{"name": spec}
				if name, tag, ok := strings.Cut(spec, "="); ok {
					p["name"] = name
					p["display_tag"] = tag
				}
				participants = append(participants, p)
			}

			req := map[string]any{"participants": participants}
			var result Session

			if err := client.Put(fmt.Sprintf("/api/v1/sessions/%s/participants", id), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionRemoveParticipantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-participant <id> <participant-id>",
		Short: "Remove a participant from the session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session

			path := fmt.Sprintf("/api/v1/sessions/%s/participants/%s", args[0], args[1])
			if err := client.Delete(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionCalculateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calculate <id>",
		Short: "Calculate per-participant splits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/calculate", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <id> [file]",
		Short: "Extract items from receipt text",
		Long: `Extract items from already recognized receipt text and install them on
the session. Reads the text from the given file, or from stdin when no
file is given.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			var text []byte
			var err error
			if len(args) == 2 {
				text, err = os.ReadFile(args[1])
			} else {
				text, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return fmt.Errorf("failed to read text: %w", err)
			}

			req := map[string]string{"text": string(text)}
			var result Session

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/extract", id), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionFinalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finalize <id>",
		Short: "Finalize a calculated session into an immutable bill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Bill

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/finalize", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

// parseItemSpec parses name=price[=pid1,pid2] into a request item
func parseItemSpec(spec string) (map[string]any, error) {
	parts := strings.SplitN(spec, "=", 3)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid item %q: expected name=price[=pid1,pid2]", spec)
	}

	price, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price in item %q: %w", spec, err)
	}

	item := map[string]any{
		"name":  parts[0],
		"price": price,
	}
	if len(parts) == 3 && parts[2] != "" {
		item["participant_ids"] = strings.Split(parts[2], ",")
	}
	return item, nil
}
