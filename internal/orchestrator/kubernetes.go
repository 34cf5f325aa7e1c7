package orchestrator

import (
	"context"
	"fmt"
	"sort"

	"github.com/mohesu/jasmin-api/internal/jcli"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// KubernetesResolver lists running gateway pods and dials each pod IP on
// the console port.
type KubernetesResolver struct {
	clientset kubernetes.Interface
	namespace string
	selector  string
	port      int
}

func NewKubernetesResolver(clientset kubernetes.Interface, namespace, selector string, port int) *KubernetesResolver {
	return &KubernetesResolver{clientset: clientset, namespace: namespace, selector: selector, port: port}
}

// InitKubernetes builds a clientset from the in-cluster config, falling
// back to the local kubeconfig.
func InitKubernetes(ctx context.Context, namespace, selector string, port int) (*KubernetesResolver, error) {
	cfg, err := rest.InClusterConfig()
	if err != nil {
		kubeconfig := clientcmd.NewDefaultClientConfigLoadingRules().GetDefaultFilename()
		if home := homedir.HomeDir(); home != "" && kubeconfig == "" {
			kubeconfig = home + "/.kube/config"
		}
		cfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, fmt.Errorf("k8s config: %w", err)
		}
	}

	clientset, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("k8s clientset: %w", err)
	}
	if _, err := clientset.CoreV1().Namespaces().Get(ctx, namespace, metav1.GetOptions{}); err != nil {
		return nil, fmt.Errorf("k8s namespace check: %w", err)
	}
	return NewKubernetesResolver(clientset, namespace, selector, port), nil
}

func (k *KubernetesResolver) BackendName() string {
	return "kubernetes"
}

func (k *KubernetesResolver) Resolve(ctx context.Context) ([]jcli.Endpoint, error) {
	pods, err := k.clientset.CoreV1().Pods(k.namespace).List(ctx, metav1.ListOptions{
		LabelSelector: k.selector,
	})
	if err != nil {
		return nil, jcli.Errorf(jcli.KindTransportError, "list pods in %s: %v", k.namespace, err)
	}

	items := pods.Items
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	var eps []jcli.Endpoint
	for _, pod := range items {
		if pod.Status.Phase != corev1.PodRunning || pod.Status.PodIP == "" || pod.DeletionTimestamp != nil {
			continue
		}
		eps = append(eps, jcli.Endpoint{Host: pod.Status.PodIP, Port: k.port})
	}
	if len(eps) == 0 {
		return nil, noBackend("no backend available: no running pods match %q in %s", k.selector, k.namespace)
	}
	return eps, nil
}
