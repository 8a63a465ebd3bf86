package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yanqian/horoscope/internal/bootstrap"
	"github.com/yanqian/horoscope/internal/domain/snapshot"
)

func newPublishCmd(root *rootOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Run the snapshot publisher once",
		Long:  "Renders every configured snapshot location and uploads the payloads to object storage.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			rt, err := newServices(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			storage := bootstrap.NewSnapshotStorage(cfg, rt.logger)
			publisher := snapshot.NewPublisher(bootstrap.SnapshotConfig(cfg), rt.service, storage, rt.logger)
			objects, err := publisher.Publish(cmd.Context(), date)
			for _, obj := range objects {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", obj.Key, obj.Size, obj.ETag)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "local date as YYYY-MM-DD (default: today in each zone)")
	return cmd
}
