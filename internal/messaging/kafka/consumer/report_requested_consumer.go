package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/aakifsaf/precision-attendance/internal/events"
	"github.com/aakifsaf/precision-attendance/internal/export"
	exporterrors "github.com/aakifsaf/precision-attendance/internal/export/errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func ConsumeReportRequested(
	ctx context.Context,
	reader *kafkago.Reader,
	exportService export.Service,
	exportDir string,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.report_requested")
	log.Info("report requested consumer started", zap.String("export_dir", exportDir))

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("report requested consumer stopped")
				return
			}
			log.Error("fetch report requested message failed", zap.Error(err))
			continue
		}

		var event events.ReportRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode report requested event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		path, err := exportService.GenerateToFile(ctx, exportDir)
		if err != nil {
			if errors.Is(err, exporterrors.ErrNoExportData) {
				// Nothing to render; the request is still satisfied.
				log.Warn("report requested with no attendance data, skipping",
					zap.String("report_id", event.ReportID),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("generate report failed",
				zap.String("report_id", event.ReportID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit report requested message failed", zap.Error(err))
			continue
		}

		log.Info("report generated",
			zap.String("report_id", event.ReportID),
			zap.String("requested_by", event.RequestedBy),
			zap.String("path", path),
		)
	}
}
