package audit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skillcoder/guardrail-controller/internal/logic/guardrail"
)

type splitImageCase struct {
	name           string
	give           string
	wantRepository string
	wantTag        string
	wantErr        error
}

func Test_splitImage(t *testing.T) {
	t.Parallel()

	tests := []splitImageCase{
		{name: "docker hub short", give: "nginx:1.25", wantRepository: "nginx", wantTag: "1.25"},
		{name: "no tag", give: "nginx", wantRepository: "nginx", wantTag: ""},
		{name: "registry with port", give: "registry.local:5000/team/api:v2", wantRepository: "registry.local:5000/team/api", wantTag: "v2"},
		{name: "explicit library path", give: "docker.io/library/redis:7", wantRepository: "redis", wantTag: "7"},
		{
			name:           "digest only",
			give:           "nginx@sha256:0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
			wantRepository: "nginx",
			wantTag:        "sha256:0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		},
		{name: "empty", give: "", wantErr: guardrail.ErrMissingField},
		{name: "uppercase", give: "NGINX:1.0", wantErr: guardrail.ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repository, tag, err := splitImage(tt.give)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantRepository, repository)
			require.Equal(t, tt.wantTag, tag)
		})
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	base := func() Workload {
		return Workload{
			Name:      "web",
			Namespace: "default",
			Containers: []Container{
				{Name: "app", Image: "nginx:1.25", CPULimit: "1", MemoryLimit: "1Gi"},
				{Name: "sidecar", Image: "envoyproxy/envoy:v1.30.1", CPULimit: "200m", MemoryLimit: "256Mi"},
			},
		}
	}

	tests := []struct {
		name      string
		give      func(w *Workload)
		wantErr   error
		wantInMsg string
	}{
		{name: "compliant", give: func(*Workload) {}},
		{
			name:      "sidecar without limits",
			give:      func(w *Workload) { w.Containers[1].MemoryLimit = "" },
			wantErr:   guardrail.ErrMissingField,
			wantInMsg: "container sidecar:",
		},
		{
			name:      "untagged image",
			give:      func(w *Workload) { w.Containers[0].Image = "nginx" },
			wantErr:   guardrail.ErrMissingField,
			wantInMsg: "container app:",
		},
		{
			name: "hpa inside bounds",
			give: func(w *Workload) { w.Autoscaling = &Autoscaling{MinReplicas: 2, MaxReplicas: 6} },
		},
		{
			name:    "hpa above bounds",
			give:    func(w *Workload) { w.Autoscaling = &Autoscaling{MinReplicas: 2, MaxReplicas: 50} },
			wantErr: guardrail.ErrGuardrailViolation,
		},
		{
			name:    "no containers",
			give:    func(w *Workload) { w.Containers = nil },
			wantErr: guardrail.ErrMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := base()
			tt.give(&w)

			err := Evaluate(w)
			if tt.wantErr == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, tt.wantErr)

			if tt.wantInMsg != "" {
				require.ErrorContains(t, err, tt.wantInMsg)
			}
		})
	}
}
