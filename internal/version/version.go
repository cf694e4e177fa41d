package version

import (
	"fmt"
	"strconv"
	"time"
)

var (
	Number       string
	Revision     string
	RevisionTime string
)

func String(program string) string {
	if Number == "" {
		return fmt.Sprintf("%s: development build", program)
	}

	return fmt.Sprintf("%s: v%s-%s", program, Number, Revision)
}

func HumanRevisionTime() string {
	secs, err := strconv.ParseInt(RevisionTime, 10, 64)
	if err != nil {
		return ""
	}

	return time.Unix(secs, 0).UTC().String()
}
