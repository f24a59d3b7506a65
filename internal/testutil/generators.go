package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// TestDataGenerator provides methods for generating test data.
type TestDataGenerator struct {
	rand *rand.Rand
}

// NewTestDataGenerator creates a new test data generator with a seeded random source.
func NewTestDataGenerator(seed int64) *TestDataGenerator {
	return &TestDataGenerator{
		rand: rand.New(rand.NewSource(seed)),
	}
}

// GenerateDatedKeys generates count unique keys under prefix, each carrying a date
// between 2020-01-01 and the end of 2024.
func (g *TestDataGenerator) GenerateDatedKeys(count int, prefix string) []string {
	base := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	keys := make([]string, count)
	for i := 0; i < count; i++ {
		day := base.AddDate(0, 0, g.rand.Intn(5*365))
		keys[i] = fmt.Sprintf("%sreport-%05d-%s.pdf", prefix, i, day.Format("2006-01-02"))
	}
	return keys
}

// GenerateUndatedKeys generates count keys under prefix without any date.
func (g *TestDataGenerator) GenerateUndatedKeys(count int, prefix string) []string {
	keys := make([]string, count)
	for i := 0; i < count; i++ {
		keys[i] = fmt.Sprintf("%snotes-%05d.txt", prefix, i)
	}
	return keys
}

// Shuffle returns a shuffled copy of keys.
func (g *TestDataGenerator) Shuffle(keys []string) []string {
	out := append([]string(nil), keys...)
	g.rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// GenerateObjectList generates S3 objects for the given keys.
func (g *TestDataGenerator) GenerateObjectList(keys []string) []types.Object {
	objects := make([]types.Object, len(keys))
	baseTime := time.Now().Add(-24 * time.Hour)
	for i, key := range keys {
		size := int64(g.rand.Intn(1000000) + 1000) // 1KB to 1MB
		objects[i] = CreateTestObject(key, size, baseTime.Add(time.Duration(i)*time.Minute))
	}
	return objects
}
