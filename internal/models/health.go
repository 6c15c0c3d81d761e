package models

// HealthMetrics is the self-monitoring summary for the metrics server itself.
// Every field degrades to its zero value when the corresponding query fails;
// a partially populated record is preferred over no record at all.
type HealthMetrics struct {
	// Status
	IsReady       bool    `json:"isReady"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
	Version       string  `json:"version"`
	GoVersion     string  `json:"goVersion"`

	// Storage
	StorageBlocksBytes         float64 `json:"storageBlocksBytes"`
	StorageWALBytes            float64 `json:"storageWalBytes"`
	StorageTotalBytes          float64 `json:"storageTotalBytes"`
	StorageRetentionLimitBytes float64 `json:"storageRetentionLimitBytes"`
	StorageRetentionLimitSecs  float64 `json:"storageRetentionLimitSeconds"`
	HeadSeries                 float64 `json:"headSeries"`
	OldestTimestampSeconds     float64 `json:"oldestTimestampSeconds"`
	NewestTimestampSeconds     float64 `json:"newestTimestampSeconds"`
	BlocksLoaded               float64 `json:"blocksLoaded"`

	// Memory
	ProcessMemoryBytes float64 `json:"processMemoryBytes"`
	HeapInuseBytes     float64 `json:"heapInuseBytes"`
	HeapAllocBytes     float64 `json:"heapAllocBytes"`
	Goroutines         float64 `json:"goroutines"`

	// CPU (rate value)
	CPUSecondsRate float64 `json:"cpuSecondsRate"`

	// Ingestion rates
	SamplesAppendedRate float64 `json:"samplesAppendedRate"`
	SeriesCreatedRate   float64 `json:"seriesCreatedRate"`

	// Scrape stats
	TargetCount           float64 `json:"targetCount"`
	ScrapeDurationSeconds float64 `json:"scrapeDurationSeconds"`
	ScrapeSamples         float64 `json:"scrapeSamples"`

	// Health indicators
	CompactionsFailed     float64 `json:"compactionsFailed"`
	CompactionsTotal      float64 `json:"compactionsTotal"`
	WALCorruptions        float64 `json:"walCorruptions"`
	ConfigReloadSuccess   bool    `json:"configReloadSuccess"`
	ConfigReloadTimestamp float64 `json:"configReloadTimestamp"`

	// Time series data for sparklines
	StorageOverTime     []TimeSeriesPoint `json:"storageOverTime"`
	MemoryOverTime      []TimeSeriesPoint `json:"memoryOverTime"`
	SamplesRateOverTime []TimeSeriesPoint `json:"samplesRateOverTime"`
}
