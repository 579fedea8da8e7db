package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	opts := &serveOptions{}
	root := &cobra.Command{
		Use:   "postatus",
		Short: "采购订单进度表检查工具",
		Long: `上传 ERP 导出的采购订单进度表（구매발주진행현황），删除无关列后
展示固定资产、100 万韩元以上消耗品、600 万韩元以上维修费三类订单。

不带子命令运行时直接启动 Web 服务（同 serve）。`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	bindServeFlags(root, opts)

	root.AddCommand(serveCmd())
	root.AddCommand(processCmd())
	root.AddCommand(configCmd())
	root.AddCommand(versionCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
