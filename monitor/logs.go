package monitor

import (
	"bufio"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"strings"

	"research-registry-api/config"

	"github.com/gin-gonic/gin"
)

const (
	defaultTailLines = 200
	maxTailLines     = 2000
)

// RegisterLogRoutes serves the tail of the API log file. Fallback activations, scope
// warnings and enrichment failures are all logged there.
func RegisterLogRoutes(group *gin.RouterGroup) {
	group.GET("/logs", func(c *gin.Context) {
		n, err := strconv.Atoi(c.DefaultQuery("lines", strconv.Itoa(defaultTailLines)))
		if err != nil || n < 1 {
			n = defaultTailLines
		}
		if n > maxTailLines {
			n = maxTailLines
		}

		lines, err := TailLines(config.LogFilePath(), n, c.Query("match"))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "log file not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Unable to read log"})
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(strings.Join(lines, "\n")))
	})
}

// TailLines returns the last n lines of path, keeping only lines containing match when it
// is non-empty.
func TailLines(path string, n int, match string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if match != "" && !strings.Contains(line, match) {
			continue
		}
		if len(ring) == n {
			ring = append(ring[1:], line)
			continue
		}
		ring = append(ring, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ring, nil
}
