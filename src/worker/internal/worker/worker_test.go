package worker_test

import (
	"context"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/stem-separator/src/shared/jobs"
	"github.com/veedubyou/stem-separator/src/shared/stems"
	. "github.com/veedubyou/stem-separator/src/shared/testing"
	"github.com/veedubyou/stem-separator/src/shared/timeline/entity"
	"github.com/veedubyou/stem-separator/src/worker/internal/dummy"
	"github.com/veedubyou/stem-separator/src/worker/internal/jobs/job_router"
	"github.com/veedubyou/stem-separator/src/worker/internal/jobs/separate"
	"github.com/veedubyou/stem-separator/src/worker/internal/publish"
	"github.com/veedubyou/stem-separator/src/worker/internal/separation"
	"github.com/veedubyou/stem-separator/src/worker/internal/separator"
	"github.com/veedubyou/stem-separator/src/worker/internal/source"
	"github.com/veedubyou/stem-separator/src/worker/internal/worker"
)

var _ = Describe("QueueWorker", func() {
	const timelineID = "timeline-ID"

	var (
		workingDir string
		mediaDir   string

		rabbitMQ           *dummy.RabbitMQ
		dummyTimelineStore *dummy.TimelineStore
		dummyExecutor      *dummy.SpleeterExecutor

		queueWorker *worker.QueueWorker
		timeline    timelineentity.Timeline
	)

	publishSeparateJob := func(count stems.Count) {
		message := ExpectSuccess(jobs.NewSeparateStemsMessage(jobs.SeparateStemsParams{
			TimelineID: timelineID,
			Stems:      count,
		}))
		Expect(rabbitMQ.Publish(message)).To(Succeed())
	}

	storedTimeline := func() timelineentity.Timeline {
		return ExpectSuccess(dummyTimelineStore.GetTimeline(context.Background(), timelineID))
	}

	BeforeEach(func() {
		By("Creating scratch dirs", func() {
			workingDir = ExpectSuccess(os.MkdirTemp("", "worker-wd"))
			mediaDir = ExpectSuccess(os.MkdirTemp("", "worker-media"))
			DeferCleanup(func() {
				_ = os.RemoveAll(workingDir)
				_ = os.RemoveAll(mediaDir)
			})
		})

		By("Instantiating all dummies", func() {
			rabbitMQ = dummy.NewRabbitMQ()
			dummyTimelineStore = dummy.NewDummyTimelineStore()
			dummyExecutor = dummy.NewDummySpleeterExecutor()
		})

		timeline = TimelineWithActive(timelineID, SoundClip("active-clip", WriteFakeAudio(mediaDir, "song.wav"), 1))
	})

	JustBeforeEach(func() {
		Expect(dummyTimelineStore.SetTimeline(context.Background(), timeline)).To(Succeed())

		By("Instantiating the worker", func() {
			spleeter := ExpectSuccess(separator.NewSpleeter(workingDir, "/whatever/spleeter", "/whatever/python3", dummyExecutor))
			operator := separation.NewOperator(
				dummyTimelineStore,
				source.LocalResolver{},
				spleeter,
				publish.LocalPublisher{},
				separation.Config{},
			)
			router := job_router.NewJobRouter(dummyTimelineStore, separate.NewJobHandler(operator))
			queueWorker = worker.NewQueueWorker(rabbitMQ, "test-queue", router)
		})

		go func() {
			defer GinkgoRecover()
			err := queueWorker.Start()
			Expect(err).NotTo(HaveOccurred())
		}()
	})

	Describe("a separate job that succeeds", func() {
		It("acks and adds the stems to the timeline", func() {
			publishSeparateJob(stems.FourStems)

			Eventually(rabbitMQ.AckCounter).Should(Equal(1))
			Consistently(rabbitMQ.NackCounter).Should(Equal(0))

			saved := storedTimeline()
			Expect(saved.Defined.Clips).To(HaveLen(5))
			_, failed := saved.SeparationError()
			Expect(failed).To(BeFalse())
		})

		Context("after an earlier failure", func() {
			BeforeEach(func() {
				timeline.SetSeparationError("old news")
			})

			It("clears the recorded failure", func() {
				publishSeparateJob(stems.TwoStems)

				Eventually(rabbitMQ.AckCounter).Should(Equal(1))
				_, failed := storedTimeline().SeparationError()
				Expect(failed).To(BeFalse())
			})
		})
	})

	Describe("a separate job that fails", func() {
		BeforeEach(func() {
			movie := timelineentity.NewClip(timelineentity.ClipFields{
				ID:   "movie-clip",
				Type: timelineentity.MovieClipType,
				Lane: 1,
			})
			timeline = TimelineWithActive(timelineID, movie)
		})

		It("nacks and records why on the timeline", func() {
			publishSeparateJob(stems.FourStems)

			Eventually(rabbitMQ.NackCounter).Should(Equal(1))
			Expect(rabbitMQ.AckCounter()).To(Equal(0))

			Eventually(func() string {
				message, _ := storedTimeline().SeparationError()
				return message
			}).Should(Equal(separation.NoActiveSoundClipMessage))
			Expect(dummyExecutor.SeparateCalls()).To(Equal(0))
		})
	})

	Describe("an unknown message", func() {
		It("is nacked", func() {
			Expect(rabbitMQ.Publish(amqp091.Publishing{
				Type: "split_track",
				Body: []byte("{}"),
			})).To(Succeed())

			Eventually(rabbitMQ.NackCounter).Should(Equal(1))
		})
	})

	Describe("a malformed separate job", func() {
		It("is nacked", func() {
			Expect(rabbitMQ.Publish(amqp091.Publishing{
				Type: jobs.SeparateStemsJobType,
				Body: []byte(`{"timeline_id": "timeline-ID", "stems": "3"}`),
			})).To(Succeed())

			Eventually(rabbitMQ.NackCounter).Should(Equal(1))
			Expect(storedTimeline().Defined.Clips).To(HaveLen(1))
		})
	})
})
