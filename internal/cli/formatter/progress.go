package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// QuorumProgress renders counted votes against quorum as [████░░░░] 3/5.
// The bar is green once quorum is met, yellow past half way, red otherwise.
func QuorumProgress(total, quorum uint64, width int) string {
	width = max(width, 2)

	filled := width
	if quorum > 0 && total < quorum {
		filled = int(total * uint64(width) / quorum)
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case total >= quorum:
	case total*2 >= quorum:
		style = StyleYellow
	default:
		style = StyleRed
	}
	return fmt.Sprintf("[%s] %d/%d", style.Render(bar), total, quorum)
}
