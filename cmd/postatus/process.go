package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/spracknow-droid/PO-Progress-Status/internal/service/review"
)

func processCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "处理单个 Excel 文件并保存结果",
		Long: `不启动 Web 服务，直接处理一个文件并把四个结果文件写入输出目录。

Examples:
  postatus process ~/Downloads/구매발주진행현황.xlsx
  postatus process orders.xls -o ./out`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args[0], outDir)
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "结果文件输出目录")
	return cmd
}

func runProcess(cmd *cobra.Command, path, outDir string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	report, err := review.Run(filepath.Base(path), f)
	if err != nil {
		var pe *review.ParseError
		if errors.As(err, &pe) {
			return errors.New(review.UserMessage(err))
		}
		return err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s행 %d열, 삭제된 컬럼 %d개\n",
		report.FileName, humanize.Comma(int64(report.InputRows)), report.InputColumns, len(report.DroppedColumns))

	if report.Mismatch != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), report.Mismatch.Warning())
	}
	for _, v := range report.Views {
		fmt.Fprintf(out, "  %s: %s행\n", v.Rule.Title, humanize.Comma(int64(v.Table.RowCount())))
	}

	for _, a := range report.Artifacts {
		target := filepath.Join(outDir, a.FileName)
		if err := os.WriteFile(target, a.Data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
		fmt.Fprintf(out, "  -> %s (%s)\n", target, humanize.IBytes(uint64(a.Size)))
	}
	return nil
}
