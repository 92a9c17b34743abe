package entity

// Example is one labeled training clip and its precomputed fingerprint.
type Example struct {
	ID          string
	Fingerprint Fingerprint
}

// CategoryExamples groups the successfully fingerprinted examples of one
// category. The list may be empty when every example failed extraction; such
// a category still participates in classification and always scores 0.
type CategoryExamples struct {
	Name     string
	Examples []Example
}

// TrainingCorpus maps categories to their example fingerprints. Category
// order is the enumeration order of the example source and is load-bearing:
// the classifier's tie-break policy awards equal top scores to the
// first-seen category.
type TrainingCorpus struct {
	Categories []CategoryExamples
}

func (c *TrainingCorpus) CategoryCount() int {
	return len(c.Categories)
}

func (c *TrainingCorpus) ExampleCount() int {
	total := 0
	for _, cat := range c.Categories {
		total += len(cat.Examples)
	}
	return total
}
