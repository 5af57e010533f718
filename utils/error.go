package utils

import "errors"

var ErrorNoWeekRanges = errors.New("no week ranges to process")
