package main

import (
	"fmt"
	"strconv"
	"sync"

	"f1-telegram-bot/internal/database"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"
)

const (
	metricsNamespace = "f1"
	metricsSubsystem = "telegram_bot"
)

type BotMetrics struct {
	CommandsProcessed  prometheus.Counter
	MessagesHandled    prometheus.Counter
	ChannelsCount      prometheus.Gauge
	ChannelNames       *prometheus.CounterVec
	ChannelsSet        map[int64]string
	MessagesPerChannel *prometheus.CounterVec
	CommandOutcomes    *prometheus.CounterVec
	CacheRequests      *prometheus.CounterVec
	Mutex              sync.Mutex
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	metrics := &BotMetrics{
		CommandsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "commands_processed",
			Help:      "The total number of processed commands",
		}),
		MessagesHandled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "messages_handled",
			Help:      "The total number of handled messages",
		}),
		ChannelsCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "channels_count",
			Help:      "The current number of unique channels the bot is operating in",
		}),
		ChannelNames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "channel_names",
				Help:      "Tracks channels the bot has interacted with",
			},
			[]string{"chat_id", "chat_name"},
		),
		MessagesPerChannel: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "messages_per_channel",
				Help:      "The total number of messages handled per channel",
			},
			[]string{"chat_id", "chat_name"},
		),
		CommandOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "command_outcomes",
				Help:      "Dispatched commands by name and outcome",
			},
			[]string{"command", "outcome"},
		),
		CacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "cache_requests",
				Help:      "Response cache lookups by outcome",
			},
			[]string{"outcome"},
		),
		ChannelsSet: make(map[int64]string),
	}

	reg.MustRegister(
		metrics.CommandsProcessed,
		metrics.MessagesHandled,
		metrics.ChannelsCount,
		metrics.ChannelNames,
		metrics.MessagesPerChannel,
		metrics.CommandOutcomes,
		metrics.CacheRequests,
	)

	return metrics
}

func (m *BotMetrics) ObserveCommand(command, outcome string) {
	m.CommandOutcomes.WithLabelValues(command, outcome).Inc()
}

func (m *BotMetrics) ObserveCache(outcome string) {
	m.CacheRequests.WithLabelValues(outcome).Inc()
}

func (m *BotMetrics) updateChannelsSet(chatID int64, chatName string) {
	m.Mutex.Lock()
	defer m.Mutex.Unlock()

	if _, exists := m.ChannelsSet[chatID]; !exists {
		m.ChannelsSet[chatID] = chatName
		m.ChannelsCount.Set(float64(len(m.ChannelsSet)))

		m.ChannelNames.WithLabelValues(fmt.Sprintf("%d", chatID), chatName).Inc()
	}
}

// LoadFromDB restores the counters saved by SaveToDB.
func (m *BotMetrics) LoadFromDB(store *database.Store) {
	m.Mutex.Lock()
	defer m.Mutex.Unlock()

	commandsProcessed, _ := store.GetMetric("commands_processed")
	messagesHandled, _ := store.GetMetric("messages_handled")

	m.CommandsProcessed.Add(commandsProcessed)
	m.MessagesHandled.Add(messagesHandled)

	loadLabeledMetrics(store, "channel_names", func(chatIDStr, chatName string, _ float64) {
		chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			log.Warnf("Failed to parse chatID %s: %v", chatIDStr, err)
			return
		}
		m.ChannelNames.WithLabelValues(chatIDStr, chatName).Add(1)
		m.ChannelsSet[chatID] = chatName
	})
	m.ChannelsCount.Set(float64(len(m.ChannelsSet)))

	loadLabeledMetrics(store, "messages_per_channel", func(chatID, chatName string, value float64) {
		m.MessagesPerChannel.WithLabelValues(chatID, chatName).Add(value)
	})
	loadLabeledMetrics(store, "command_outcomes", func(command, outcome string, value float64) {
		m.CommandOutcomes.WithLabelValues(command, outcome).Add(value)
	})
	loadLabeledMetrics(store, "cache_requests", func(_, outcome string, value float64) {
		m.CacheRequests.WithLabelValues(outcome).Add(value)
	})

	log.Debug("Metrics loaded from database.")
}

func loadLabeledMetrics(store *database.Store, metricName string, callback func(labelKey, labelValue string, value float64)) {
	metricsWithLabels, err := store.GetMetricsWithLabels(metricName)
	if err != nil {
		log.Errorf("Failed to load %s: %v", metricName, err)
		return
	}
	for labelKey, labelValues := range metricsWithLabels {
		for labelValue, value := range labelValues {
			callback(labelKey, labelValue, value)
		}
	}
}

// SaveToDB snapshots the counters. Labeled vectors keep their first label
// as key and the second as value.
func (m *BotMetrics) SaveToDB(store *database.Store) {
	m.Mutex.Lock()
	defer m.Mutex.Unlock()

	saveMetric(store, "commands_processed", GetMetricValue(m.CommandsProcessed))
	saveMetric(store, "messages_handled", GetMetricValue(m.MessagesHandled))

	for chatID, chatName := range m.ChannelsSet {
		saveLabeledMetric(store, "channel_names", fmt.Sprintf("%d", chatID), chatName, float64(chatID))
	}

	saveCounterVec(store, "messages_per_channel", m.MessagesPerChannel, "chat_id", "chat_name")
	saveCounterVec(store, "command_outcomes", m.CommandOutcomes, "command", "outcome")
	saveCounterVec(store, "cache_requests", m.CacheRequests, "", "outcome")

	log.Debug("Metrics saved to database.")
}

func saveMetric(store *database.Store, name string, value float64) {
	if err := store.SaveMetric(name, value); err != nil {
		log.Error(err)
	}
}

func saveLabeledMetric(store *database.Store, name, key, value string, v float64) {
	if err := store.SaveMetricWithLabels(name, key, value, v); err != nil {
		log.Error(err)
	}
}

// saveCounterVec stores every series of vec. An empty keyLabel stores the
// series under the "outcome" key only.
func saveCounterVec(store *database.Store, name string, vec *prometheus.CounterVec, keyLabel, valueLabel string) {
	metricChan := make(chan prometheus.Metric, 1)
	go func() {
		vec.Collect(metricChan)
		close(metricChan)
	}()

	for metric := range metricChan {
		metricProto := &dto.Metric{}
		if err := metric.Write(metricProto); err != nil {
			log.Errorf("Failed to read %s metric: %v", name, err)
			continue
		}
		key := valueLabel
		var value string
		for _, label := range metricProto.Label {
			if keyLabel != "" && label.GetName() == keyLabel {
				key = label.GetValue()
			}
			if label.GetName() == valueLabel {
				value = label.GetValue()
			}
		}
		saveLabeledMetric(store, name, key, value, metricProto.Counter.GetValue())
	}
}

func GetMetricValue(metric prometheus.Collector) float64 {
	var metricValue float64
	metricChan := make(chan prometheus.Metric, 1)
	metric.Collect(metricChan)
	close(metricChan)

	metricProto := &dto.Metric{}
	if err := (<-metricChan).Write(metricProto); err != nil {
		log.Errorf("Failed to read metric value: %v", err)
		return 0
	}

	if metricProto.Counter != nil {
		metricValue = metricProto.Counter.GetValue()
	} else if metricProto.Gauge != nil {
		metricValue = metricProto.Gauge.GetValue()
	}
	return metricValue
}
