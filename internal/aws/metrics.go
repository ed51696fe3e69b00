package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metrics publishes storefront counters to CloudWatch.
type Metrics struct {
	CloudWatch CloudWatchAPI
	Namespace  string
	nowFunc    func() time.Time
}

// NewMetrics returns a Metrics publisher for the given namespace.
func NewMetrics(client CloudWatchAPI, namespace string) *Metrics {
	return &Metrics{
		CloudWatch: client,
		Namespace:  namespace,
		nowFunc:    time.Now,
	}
}

// RecordOrderPlaced emits OrdersPlaced (count) and OrderRevenue (amount) in one call.
func (m *Metrics) RecordOrderPlaced(ctx context.Context, amount float64) error {
	now := m.nowFunc()
	_, err := m.CloudWatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: &m.Namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: awsString("OrdersPlaced"),
				Timestamp:  &now,
				Unit:       cwtypes.StandardUnitCount,
				Value:      float64Ptr(1),
			},
			{
				MetricName: awsString("OrderRevenue"),
				Timestamp:  &now,
				Unit:       cwtypes.StandardUnitNone,
				Value:      float64Ptr(amount),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}

func float64Ptr(v float64) *float64 { return &v }
