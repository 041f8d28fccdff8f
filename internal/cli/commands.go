package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/partpick/internal/prefs"
)

type searchResult struct {
	Position    int    `json:"position" yaml:"position"`
	Description string `json:"description" yaml:"description"`
}

func newSearchCommand(flags *globalFlags) *cobra.Command {
	var remember bool
	cmd := &cobra.Command{
		Use:   "search <term>...",
		Short: "Search parts and list the hits",
		Long: `Search the catalog and print every hit with its position. Positions are
what 'partpick show' takes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.Join(args, " ")
			rt, err := connect(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			descriptions, err := rt.Driver.Search(cmd.Context(), term)
			if err != nil {
				return err
			}
			if remember {
				rememberSearch(cmd, flags, term)
			}

			results := make([]searchResult, 0, len(descriptions))
			for i, d := range descriptions {
				results = append(results, searchResult{Position: i, Description: d})
			}

			p := newPrinter(cmd, flags.output)
			if !p.table() {
				return p.structured(results)
			}
			if len(results) == 0 {
				p.muted(fmt.Sprintf("No parts match %q", term))
				return nil
			}
			rows := make([][2]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, [2]string{strconv.Itoa(r.Position), r.Description})
			}
			p.header(fmt.Sprintf("%d parts match %q", len(results), term))
			p.rows(rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remember, "remember", false, "Store the term as the TUI's last search")
	return cmd
}

type partView struct {
	Position  int               `json:"position" yaml:"position"`
	PartID    int               `json:"part_id" yaml:"part_id"`
	Name      string            `json:"name,omitempty" yaml:"name,omitempty"`
	Fields    map[string]string `json:"fields" yaml:"fields"`
	ImagePath string            `json:"image_path,omitempty" yaml:"image_path,omitempty"`
}

func newShowCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <position> <term>...",
		Short: "Search, then show the detail of one hit",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid position %q: %w", args[0], err)
			}
			term := strings.Join(args[1:], " ")

			rt, err := connect(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			if _, err := rt.Driver.Search(cmd.Context(), term); err != nil {
				return err
			}
			detail, err := rt.Driver.SelectPart(cmd.Context(), position)
			if err != nil {
				return err
			}

			view := partView{
				Position:  position,
				PartID:    detail.PartID,
				Name:      detail.Name,
				Fields:    detail.Fields,
				ImagePath: detail.ImagePath,
			}
			p := newPrinter(cmd, flags.output)
			if !p.table() {
				return p.structured(view)
			}

			title := detail.Name
			if title == "" {
				title = "Part " + strconv.Itoa(detail.PartID)
			}
			p.header(title)
			p.rows(sortedFields(detail.Fields))
			if detail.ImagePath != "" {
				p.rows([][2]string{{"Image", detail.ImagePath}})
			}
			return nil
		},
	}
}

func newInfoCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Connect and show the server version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := connect(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			session := rt.Driver.Session()
			info := rt.Driver.ConnectionInfo()
			info["server_url"] = session.ServerURL
			info["api_url"] = session.APIURL
			info["username"] = session.Username
			info["templates"] = strconv.Itoa(len(session.Templates))
			info["locations"] = strconv.Itoa(len(session.Locations))

			p := newPrinter(cmd, flags.output)
			if !p.table() {
				return p.structured(info)
			}
			p.header("Connected to InvenTree as " + session.Username)
			p.rows(sortedFields(info))
			return nil
		},
	}
}

type capabilityView struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

func newCapabilitiesCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities",
		Short: "List the settings the driver needs from its host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			caps := rt.Driver.Capabilities()
			views := make([]capabilityView, 0, len(caps))
			for _, c := range caps {
				views = append(views, capabilityView{ID: int(c), Name: c.String()})
			}

			p := newPrinter(cmd, flags.output)
			if !p.table() {
				return p.structured(views)
			}
			rows := make([][2]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, [2]string{strconv.Itoa(v.ID), v.Name})
			}
			p.rows(rows)
			if _, err := rt.Driver.AvailableFilters(); err != nil {
				p.muted("filters: " + err.Error())
			}
			return nil
		},
	}
}

// sortedFields returns the map as label/value rows in label order.
func sortedFields(fields map[string]string) [][2]string {
	labels := make([]string, 0, len(fields))
	for label := range fields {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	rows := make([][2]string, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, [2]string{label, fields[label]})
	}
	return rows
}

// rememberSearch stores term as the TUI's last search. Failures only warn.
func rememberSearch(cmd *cobra.Command, flags *globalFlags, term string) {
	path := flags.prefsPath
	if path == "" {
		path = prefs.DefaultPath()
	}
	p, err := prefs.Load(path)
	if err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	p.LastSearch = term
	if err := prefs.Save(path, p); err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: save prefs: %v\n", err)
	}
}
