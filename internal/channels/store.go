package channels

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// LoadCSV reads a `username,url,channel` CSV. Rows that already carry a
// channel ID are marked found so they are skipped when scraping.
func LoadCSV(path string) ([]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	var results []Result
	for i, record := range records {
		if i == 0 && len(record) > 0 && strings.EqualFold(record[0], "username") {
			continue // header
		}
		if len(record) == 0 {
			continue
		}

		username := strings.TrimSpace(record[0])
		if username == "" {
			continue
		}

		result := Result{Username: username, Status: StatusPending}
		if len(record) > 1 {
			result.URL = strings.TrimSpace(record[1])
		}
		if len(record) > 2 {
			channelID := strings.TrimSpace(record[2])
			if strings.HasPrefix(channelID, "UC") {
				result.ChannelID = channelID
				result.Status = StatusFound
				if result.URL == "" {
					result.URL = fmt.Sprintf("%s/channel/%s", defaultBaseURL, channelID)
				}
			}
		}
		results = append(results, result)
	}

	return results, nil
}

// SaveCSV writes results as a `username,url,channel` CSV.
func SaveCSV(path string, results []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	if err := writer.Write([]string{"username", "url", "channel"}); err != nil {
		return err
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Username, result.URL, result.ChannelID}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveProgress persists the per-username state as JSON so an interrupted
// run can resume.
func SaveProgress(path string, results []Result) error {
	state := make(map[string]Result, len(results))
	for _, result := range results {
		state[result.Username] = result
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadProgress reads previously saved progress. A missing file is not an
// error and yields an empty state.
func LoadProgress(path string) (map[string]Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Result{}, nil
		}
		return nil, err
	}

	state := make(map[string]Result)
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse progress file: %w", err)
	}
	return state, nil
}

// ExportGlance writes the found channels as a Glance videos-widget YAML
// snippet.
func ExportGlance(path string, results []Result) error {
	var sb strings.Builder
	sb.WriteString("- type: videos\n  channels:\n")

	count := 0
	for _, result := range results {
		if result.Status != StatusFound || result.ChannelID == "" {
			continue
		}
		fmt.Fprintf(&sb, "    - %s  # %s\n", result.ChannelID, result.Username)
		count++
	}

	if count == 0 {
		return fmt.Errorf("no found channels to export")
	}
	return os.WriteFile(path, []byte(sb.String()), 0644)
}
