package app

import (
	"context"
	"runtime"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261017-go-pkg-appcfg/internal/config"
)

func aboutCommand() *cli.Command {
	return &cli.Command{
		Name:   "about",
		Usage:  "显示关于信息",
		Action: aboutAction,
	}
}

func aboutAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(output(cmd))
	t.SetTitle(text.Bold.Sprint(config.AppName))
	t.AppendRows([]table.Row{
		{"版本", config.Version},
		{"版本号", config.VersionCode},
		{"字体大小", cfg.UI.FontSize},
		{"Go", runtime.Version()},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()

	return nil
}
