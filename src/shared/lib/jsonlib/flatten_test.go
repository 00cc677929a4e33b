package jsonlib_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/stem-separator/src/shared/lib/jsonlib"
	. "github.com/veedubyou/stem-separator/src/shared/testing"
)

type strip struct {
	ID      string         `json:"identifier"`
	Channel int            `json:"channel"`
	Meta    map[string]any `json:"meta"`
}

func newFlattenStrip(s strip, m map[string]any) jsonlib.Flatten[strip] {
	return jsonlib.Flatten[strip]{
		Defined: s,
		Extra:   m,
	}
}

var _ = Describe("Flatten", func() {
	var (
		flatStrip   jsonlib.Flatten[strip]
		mapContents map[string]any
	)

	ItTransformsToMap := func() {
		It("transforms to map correctly", Offset(1), func() {
			toMap := ExpectSuccess(flatStrip.ToMap())
			Expect(toMap).To(Equal(mapContents))
		})
	}

	ItMarshals := func() {
		It("marshals correctly", Offset(1), func() {
			flattenJSON := ExpectSuccess(flatStrip.MarshalJSON())
			expectedJSON := ExpectSuccess(json.Marshal(mapContents))
			Expect(flattenJSON).To(Equal(expectedJSON))
		})
	}

	ItTransformsFromMap := func() {
		It("transforms from map correctly", Offset(1), func() {
			actual := jsonlib.Flatten[strip]{}
			err := actual.FromMap(mapContents)
			Expect(err).NotTo(HaveOccurred())

			Expect(actual).To(Equal(flatStrip))
		})
	}

	ItUnmarshals := func() {
		It("unmarshals correctly", Offset(1), func() {
			jsonContents := ExpectSuccess(json.Marshal(mapContents))

			actual := jsonlib.Flatten[strip]{}
			err := actual.UnmarshalJSON(jsonContents)
			Expect(err).NotTo(HaveOccurred())

			Expect(actual).To(Equal(flatStrip))
		})
	}

	ItFlattens := func() {
		ItTransformsToMap()
		ItMarshals()
		ItTransformsFromMap()
		ItUnmarshals()
	}

	Describe("Empty cases", func() {
		BeforeEach(func() {
			flatStrip = jsonlib.NewFlatten(strip{})
			mapContents = map[string]any{
				"identifier": "",
				"channel":    float64(0),
				"meta":       nil,
			}
		})

		ItFlattens()
	})

	Describe("Non-empty defined fields", func() {
		BeforeEach(func() {
			flatStrip = newFlattenStrip(strip{
				ID:      "strip-1",
				Channel: 3,
				Meta: map[string]any{
					"markers": []any{"intro", float64(48)},
					"volume":  float64(1),
				},
			}, map[string]any{})

			mapContents = map[string]any{
				"identifier": "strip-1",
				"channel":    float64(3),
				"meta": map[string]any{
					"markers": []any{"intro", float64(48)},
					"volume":  float64(1),
				},
			}
		})

		ItFlattens()
	})

	Describe("Non-empty extra fields", func() {
		BeforeEach(func() {
			flatStrip = newFlattenStrip(strip{}, map[string]any{
				"blend_type": "REPLACE",
				"modifiers": map[string]any{
					"eq": []any{"low"},
				},
			})
			mapContents = map[string]any{
				"identifier": "",
				"channel":    float64(0),
				"meta":       nil,
				"blend_type": "REPLACE",
				"modifiers": map[string]any{
					"eq": []any{"low"},
				},
			}
		})

		ItFlattens()

		It("reads extra strings", func() {
			blendType, ok := flatStrip.ExtraString("blend_type")
			Expect(ok).To(BeTrue())
			Expect(blendType).To(Equal("REPLACE"))

			_, ok = flatStrip.ExtraString("modifiers")
			Expect(ok).To(BeFalse())

			_, ok = flatStrip.ExtraString("missing")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Overlapping fields in defined and extra fields", func() {
		BeforeEach(func() {
			flatStrip = newFlattenStrip(strip{
				ID:      "strip-2",
				Channel: 7,
				Meta:    nil,
			}, map[string]any{
				"channel": float64(99),
			})

			mapContents = map[string]any{
				"identifier": "strip-2",
				"channel":    float64(7),
				"meta":       nil,
			}
		})

		ItMarshals()
	})

	Describe("Editing extra fields", func() {
		It("sets an extra field on a zero value", func() {
			zero := jsonlib.Flatten[strip]{}
			zero.SetExtra("solo", true)

			Expect(zero.Extra).To(HaveKeyWithValue("solo", true))
		})

		It("drops a deleted field from the output", func() {
			flatStrip = newFlattenStrip(strip{ID: "strip-3"}, map[string]any{
				"solo": true,
				"mute": false,
			})
			flatStrip.DeleteExtra("solo")

			output := map[string]any{}
			Expect(json.Unmarshal(ExpectSuccess(flatStrip.MarshalJSON()), &output)).To(Succeed())
			Expect(output).NotTo(HaveKey("solo"))
			Expect(output).To(HaveKeyWithValue("mute", false))
		})
	})

	It("rejects a document that isn't an object", func() {
		actual := jsonlib.Flatten[strip]{}
		Expect(actual.UnmarshalJSON([]byte(`["strip"]`))).NotTo(Succeed())
	})
})
