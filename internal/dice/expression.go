package dice

import (
	"regexp"
	"strconv"

	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
)

var expressionPattern = regexp.MustCompile(`(?i)^(?P<count>\d+)d(?P<sides>\d+)(?P<modifier>[+-]\d+)?$`)

// Expression is a parsed damage expression such as "2d6+3"
type Expression struct {
	Count    int
	Sides    int
	Modifier int
}

// ParseExpression parses an NdS+M dice expression
func ParseExpression(expr string) (Expression, error) {
	match := expressionPattern.FindStringSubmatch(expr)
	if match == nil {
		return Expression{}, dnderr.InvalidArgumentf("invalid dice expression %q", expr)
	}

	count, err := strconv.Atoi(match[1])
	if err != nil || count < 1 {
		return Expression{}, dnderr.InvalidArgumentf("invalid dice count in %q", expr)
	}
	sides, err := strconv.Atoi(match[2])
	if err != nil || sides < 1 {
		return Expression{}, dnderr.InvalidArgumentf("invalid dice sides in %q", expr)
	}

	modifier := 0
	if match[3] != "" {
		modifier, err = strconv.Atoi(match[3])
		if err != nil {
			return Expression{}, dnderr.InvalidArgumentf("invalid modifier in %q", expr)
		}
	}

	return Expression{Count: count, Sides: sides, Modifier: modifier}, nil
}

// RollExpression rolls a parsed NdS+M expression with the given roller
func RollExpression(roller Roller, expr string) (*RollResult, error) {
	parsed, err := ParseExpression(expr)
	if err != nil {
		return nil, err
	}
	return roller.Roll(parsed.Count, parsed.Sides, parsed.Modifier)
}
